/*
Castle demo entrypoint: loads the application config, builds the testbed
game and hands it to the engine.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bastion3d/bastion/engine"
	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/testbed"
)

const configPath = "bastion.toml"

func main() {
	config, err := engine.LoadApplicationConfig(configPath)
	if err != nil {
		panic(err)
	}

	tb := testbed.NewTestGame(config)

	engine, err := engine.New(tb.Game)
	if err != nil {
		panic(err)
	}

	if err := engine.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// ask the run loop to wind down on sigterm and friends
	go func() {
		<-sigCh
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	}()

	// run engine
	if err := engine.Run(); err != nil {
		panic(err)
	}

	if err := engine.Shutdown(); err != nil {
		panic(err)
	}
}
