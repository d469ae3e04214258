// densenet-server: serves one network over HTTP or a gob stream on stdin/stdout.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"densenet/nn"
	"densenet/serve"
	"densenet/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/rand"
)

var (
	arch         = flag.String("arch", "784,15,10", "Layer sizes")
	learningRate = flag.Float64("lr", 0.1, "Learning rate in (0,1]")
	addr         = flag.String("addr", ":8080", "HTTP listen address")
	stdio        = flag.Bool("stdio", false, "Speak the gob protocol on stdin/stdout instead of HTTP")
	seed         = flag.Uint64("seed", 0, "Random seed (0 uses the clock)")
	verbose      = flag.Bool("verbose", false, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose
	// stdout carries the gob stream in -stdio mode
	utils.Output = os.Stderr

	layers, err := utils.ParseArchitecture(*arch)
	if err != nil {
		fatal("invalid architecture: %v", err)
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	net, err := nn.NewNetwork(nn.Config{
		Layers:       layers,
		LearningRate: *learningRate,
		Source:       rand.NewSource(*seed),
	})
	if err != nil {
		fatal("%v", err)
	}
	guarded := serve.NewGuarded(net)
	logf("Network %v ready (run %s)", layers, guarded.ID())

	if *stdio {
		logf("Waiting for client...")
		if err := serve.Serve(serve.NewProtocol(os.Stdin, os.Stdout), guarded); err != nil {
			fatal("%v", err)
		}
		logf("Server done, %d samples trained", guarded.Status().Trained)
		return
	}

	var middleware []gin.HandlerFunc
	if *verbose {
		middleware = append(middleware, gin.Logger())
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := serve.NewRouter(guarded, middleware...)
	logf("Listening on %s", *addr)
	if err := router.Run(*addr); err != nil {
		fatal("%v", err)
	}
}

func logf(format string, args ...interface{}) {
	if *verbose {
		fmt.Fprintf(os.Stderr, "[SERVER] "+format+"\n", args...)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
