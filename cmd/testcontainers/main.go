package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/jam-build-shoplist/internal/testutil"
)

func main() {
	var showHelp bool
	var envFilename string
	flag.BoolVar(&showHelp, "h", false, "show usage")
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run the shoplist service, its database and an Authorizer in testcontainers,
configured by the environment variables from the .env file.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	started := make(chan *testutil.Containers, 1)
	go func() {
		containers, err := testutil.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatalf("Failed to create test containers: %v\n", err)
		}
		started <- containers
	}()

	var containers *testutil.Containers
	select {
	case containers = <-started:
		sig := <-sigs
		log.Printf("\nReceived signal: %v, terminating test containers...\n", sig)
	case sig := <-sigs:
		log.Printf("\nReceived signal: %v before startup completed\n", sig)
	}
	if containers != nil {
		containers.Terminate(nil)
	}
}
