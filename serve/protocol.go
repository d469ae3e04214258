package serve

import (
	"encoding/gob"
	"io"

	"densenet/utils"

	"github.com/pkg/errors"
)

func init() {
	gob.Register(PredictPayload{})
	gob.Register(TrainPayload{})
	gob.Register(Prediction{})
}

// MessageType identifies a message on the stream.
type MessageType int

const (
	MsgPredict MessageType = iota
	MsgTrain
	MsgResult
	MsgDone
	MsgError
)

// Message is one frame of the stream. Payload depends on Type.
type Message struct {
	Type    MessageType
	Payload interface{}
}

// PredictPayload carries the input of a MsgPredict request.
type PredictPayload struct {
	Features []float64
}

// TrainPayload carries the input and label of a MsgTrain request.
type TrainPayload struct {
	Features []float64
	Label    int
}

// Protocol reads and writes gob-encoded messages.
type Protocol struct {
	encoder *gob.Encoder
	decoder *gob.Decoder
}

// NewProtocol creates a protocol handler. Either side may be nil when the
// caller only sends or only receives.
func NewProtocol(r io.Reader, w io.Writer) *Protocol {
	p := &Protocol{}
	if w != nil {
		p.encoder = gob.NewEncoder(w)
	}
	if r != nil {
		p.decoder = gob.NewDecoder(r)
	}
	return p
}

// Send sends a message.
func (p *Protocol) Send(msg *Message) error {
	return p.encoder.Encode(msg)
}

// Receive blocks until the next message arrives.
func (p *Protocol) Receive() (*Message, error) {
	var msg Message
	if err := p.decoder.Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SendPredict requests a forward pass.
func (p *Protocol) SendPredict(features []float64) error {
	return p.Send(&Message{Type: MsgPredict, Payload: PredictPayload{Features: features}})
}

// SendTrain requests one training step.
func (p *Protocol) SendTrain(features []float64, label int) error {
	return p.Send(&Message{Type: MsgTrain, Payload: TrainPayload{Features: features, Label: label}})
}

// SendResult answers a predict or train request.
func (p *Protocol) SendResult(pred *Prediction) error {
	return p.Send(&Message{Type: MsgResult, Payload: *pred})
}

// SendDone signals the end of the session.
func (p *Protocol) SendDone() error {
	return p.Send(&Message{Type: MsgDone})
}

// SendError reports a failed request to the peer.
func (p *Protocol) SendError(err error) error {
	return p.Send(&Message{Type: MsgError, Payload: err.Error()})
}

// ReceiveResult waits for the answer to a predict or train request.
func (p *Protocol) ReceiveResult() (*Prediction, error) {
	msg, err := p.Receive()
	if err != nil {
		return nil, err
	}
	switch msg.Type {
	case MsgError:
		return nil, errors.Errorf("remote error: %v", msg.Payload)
	case MsgDone:
		return nil, io.EOF
	case MsgResult:
	default:
		return nil, errors.Errorf("expected result message, got %d", msg.Type)
	}
	pred, ok := msg.Payload.(Prediction)
	if !ok {
		return nil, errors.New("invalid result payload type")
	}
	return &pred, nil
}

// Serve answers predict and train requests until the peer sends MsgDone or
// closes the stream. Request errors are reported to the peer and do not end
// the session.
func Serve(p *Protocol, g *Guarded) error {
	for {
		msg, err := p.Receive()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "receive")
		}

		var pred *Prediction
		switch msg.Type {
		case MsgDone:
			utils.Logf("Session %s done", g.ID())
			return nil
		case MsgPredict:
			payload, ok := msg.Payload.(PredictPayload)
			if !ok {
				err = errors.New("invalid predict payload type")
				break
			}
			pred, err = g.Predict(payload.Features)
		case MsgTrain:
			payload, ok := msg.Payload.(TrainPayload)
			if !ok {
				err = errors.New("invalid train payload type")
				break
			}
			pred, err = g.Train(payload.Features, payload.Label)
		default:
			err = errors.Errorf("unexpected message type %d", msg.Type)
		}

		if err != nil {
			utils.Logf("Error: %v", err)
			if sendErr := p.SendError(err); sendErr != nil {
				return errors.Wrap(sendErr, "send")
			}
			continue
		}
		if err := p.SendResult(pred); err != nil {
			return errors.Wrap(err, "send")
		}
	}
}
