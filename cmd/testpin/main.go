package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	buttons "github.com/asjoyner/buttons-go"
)

func main() {
	// Raw line levels, ignoring the options store, for checking the wiring.
	backend := flag.String("backend", "periph", "pin backend: periph, rpio or cdev")
	pinsFlag := flag.String("pins", "", "Comma-separated label=pin overrides: pin names for periph, line numbers for rpio and cdev (e.g., Steam=GPIO19,A=GPIO17)")
	flag.Parse()

	names := make(map[buttons.ButtonID]string)
	if *pinsFlag != "" {
		for _, kv := range strings.Split(*pinsFlag, ",") {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				log.Fatalf("bad pin override %q, want label=pin", kv)
			}
			id, err := buttons.ParseButtonID(k)
			if err != nil {
				log.Fatal(err)
			}
			names[id] = strings.TrimSpace(v)
		}
	}

	pins := buttons.DefaultPinMap
	if *backend != "periph" {
		for id, name := range names {
			p, err := buttons.ParseLine(name)
			if err != nil {
				log.Fatalf("%s: %v", id, err)
			}
			pins[id] = p
		}
	}

	var (
		sampler buttons.Sampler
		err     error
	)
	switch *backend {
	case "periph":
		sampler, err = buttons.NewPeriphSampler(pins, names)
	case "rpio":
		sampler, err = buttons.NewRPIOSampler(pins)
	case "cdev":
		sampler, err = buttons.NewCdevSampler(pins)
	default:
		err = fmt.Errorf("unknown backend %q", *backend)
	}
	if err != nil {
		log.Fatalf("Failed to initialize pins: %v", err)
	}

	for _, id := range buttons.AllButtons() {
		fmt.Printf("%-20s %s\n", id, pins[id])
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
		case <-readLine(os.Stdin):
		}
		cancel()
	}()

	m := &buttons.Monitor{
		Source: buttons.RawSource{Sampler: sampler, Pins: pins},
		Out:    os.Stdout,
	}
	m.Run(ctx)
	fmt.Println("Shutting down")
}

func readLine(f *os.File) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		bufio.NewReader(f).ReadString('\n')
		close(ch)
	}()
	return ch
}
