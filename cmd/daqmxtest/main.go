package main

import (
	"fmt"
	"os"

	"github.jpl.nasa.gov/bdube/nidaq/daqmx"
	"github.jpl.nasa.gov/bdube/nidaq/daqmx/nidaqmx"
	"github.jpl.nasa.gov/bdube/nidaq/daqmx/simulated"
)

func main() {
	dev := "Dev1"
	if len(os.Args) > 1 {
		dev = os.Args[1]
	}
	drv, err := nidaqmx.New()
	if err != nil {
		fmt.Println(err)
		fmt.Println("falling back to the simulated driver")
		drv = simulated.New(nil)
	}

	task, err := daqmx.NewTask(drv, "daqmxtest")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer task.Close()

	chans := task.AIChannels()
	for _, phys := range []string{dev + "/ai0", dev + "/ai1"} {
		ch, err := chans.AddAIVoltageChan(phys, -10, 10)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("added %s\n", ch.Name)
	}

	// a second add of the same terminal must fail
	_, err = chans.AddAIVoltageChan(dev+"/ai0", -10, 10)
	fmt.Println("duplicate add:", err)

	names, err := chans.ChannelNames()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%d channels %v\n", len(names), names)
	ch, err := chans.ChannelAt(1)
	fmt.Println(ch.Name, err)
}
