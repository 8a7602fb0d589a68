package daqmx

// AIChannel is an analog input channel of a task.  It is a name paired with a
// reference to the task, made on demand; it has no existence in the driver
// beyond the channel the task already holds.
type AIChannel struct {
	task *Task

	// Name is the name of the channel in the task, which is the physical
	// channel it was created from, e.g. Dev1/ai0
	Name string
}

// Task is the task the channel belongs to
func (c AIChannel) Task() *Task { return c.task }

// AIVoltageChanConfig holds the arguments of a voltage channel
type AIVoltageChanConfig struct {
	// PhysicalChannel is the terminal to measure, e.g. Dev1/ai0.
	// It is also the name of the channel in the task.
	PhysicalChannel string

	// Min and Max are the expected range of the signal, in volts
	Min, Max float64

	// TerminalConfig is the input configuration, ValCfgDefault if unsure
	TerminalConfig TerminalConfig
}

// AIChannelCollection is the set of analog input channels of a task.  It holds
// no state of its own; every call asks the driver.
type AIChannelCollection struct {
	task *Task
}

// AddAIVoltageChan adds a voltage channel measuring physicalChannel over
// [minVal, maxVal] volts with the default terminal configuration
func (c *AIChannelCollection) AddAIVoltageChan(physicalChannel string, minVal, maxVal float64) (AIChannel, error) {
	return c.AddAIVoltageChanConfig(AIVoltageChanConfig{
		PhysicalChannel: physicalChannel,
		Min:             minVal,
		Max:             maxVal,
		TerminalConfig:  ValCfgDefault})
}

// AddAIVoltageChanConfig adds a voltage channel described by cfg
func (c *AIChannelCollection) AddAIVoltageChanConfig(cfg AIVoltageChanConfig) (AIChannel, error) {
	const op = "DAQmxCreateAIVoltageChan"
	if err := checkString(op, "physical channel", cfg.PhysicalChannel); err != nil {
		return AIChannel{}, err
	}
	err := c.task.ref.do(func(d Driver, h TaskHandle) error {
		// an empty virtual name makes the driver name the channel after the
		// physical channel, which is what AIChannel.Name promises
		return call(d, op, func() int32 {
			return d.CreateAIVoltageChan(h, cfg.PhysicalChannel, "",
				cfg.TerminalConfig, cfg.Min, cfg.Max, ValVolts, "")
		})
	})
	if err != nil {
		return AIChannel{}, err
	}
	return AIChannel{task: c.task, Name: cfg.PhysicalChannel}, nil
}

// ChannelNames returns the names of the channels in the task, in the order
// the driver reports them
func (c *AIChannelCollection) ChannelNames() ([]string, error) {
	var names []string
	err := c.task.ref.do(func(d Driver, h TaskHandle) error {
		s, err := getString(d, "DAQmxGetTaskChannels", func(buf []byte) int32 {
			return d.GetTaskChannels(h, buf)
		})
		if err != nil {
			return err
		}
		names = UnflattenChannelString(s)
		return nil
	})
	return names, err
}

// Len returns the number of channels in the task
func (c *AIChannelCollection) Len() (int, error) {
	names, err := c.ChannelNames()
	return len(names), err
}

// ChannelAt returns the channel at index in ChannelNames.
//
// An index outside [0, Len()) is a programming error, just like indexing a
// slice out of range, and panics with an *IndexOutOfRangeError.  Errors from
// the driver while listing the channels are returned normally.
func (c *AIChannelCollection) ChannelAt(index int) (AIChannel, error) {
	names, err := c.ChannelNames()
	if err != nil {
		return AIChannel{}, err
	}
	if index < 0 || index >= len(names) {
		panic(&IndexOutOfRangeError{Index: index, Len: len(names)})
	}
	return AIChannel{task: c.task, Name: names[index]}, nil
}

// Channel returns a channel of the task by name without asking the driver
// whether it exists
func (c *AIChannelCollection) Channel(name string) AIChannel {
	return AIChannel{task: c.task, Name: name}
}
