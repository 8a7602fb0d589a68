// Package daq provides a generic HTTP interface to DAQmx tasks and their
// analog input channels
//
// This is not the last word in speed, due to HTTP having reasonable latency in
// most client languages, but it is the last word in ease of use.
package daq

import (
	"encoding/json"
	"errors"
	"go/types"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.jpl.nasa.gov/bdube/nidaq/daqmx"
	"github.jpl.nasa.gov/bdube/nidaq/generichttp"
	"github.jpl.nasa.gov/bdube/nidaq/server"
)

// ErrUnknownTask is generated when a task name is not in the registry
var ErrUnknownTask = errors.New("no task by that name")

// ChannelSpec describes one analog voltage input channel
type ChannelSpec struct {
	// PhysicalChannel is the terminal to measure, e.g. Dev1/ai0
	PhysicalChannel string `json:"physicalChannel" yaml:"PhysicalChannel" koanf:"PhysicalChannel"`

	// Min is the lower end of the expected signal, in volts
	Min float64 `json:"min" yaml:"Min" koanf:"Min"`

	// Max is the upper end of the expected signal, in volts
	Max float64 `json:"max" yaml:"Max" koanf:"Max"`

	// TerminalConfig is one of "", "default", "rse", "nrse", "diff", "pseudodiff"
	TerminalConfig string `json:"terminalConfig" yaml:"TerminalConfig" koanf:"TerminalConfig"`
}

// TaskSpec describes a task and the channels in it
type TaskSpec struct {
	Name     string        `json:"name" yaml:"Name" koanf:"Name"`
	Channels []ChannelSpec `json:"channels" yaml:"Channels" koanf:"Channels"`
}

// Tasks is a registry of named tasks on one driver.  It is safe for
// concurrent use; calls on each task are serialized by package daqmx.
type Tasks struct {
	mu    sync.Mutex
	drv   daqmx.Driver
	tasks map[string]*daqmx.Task
}

// NewTasks returns an empty registry on drv
func NewTasks(drv daqmx.Driver) *Tasks {
	return &Tasks{drv: drv, tasks: make(map[string]*daqmx.Task)}
}

// Create makes a new task.  The empty name is replaced with task-<uuid>.
func (t *Tasks) Create(name string) (*daqmx.Task, error) {
	if name == "" {
		name = "task-" + uuid.New().String()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	task, err := daqmx.NewTask(t.drv, name)
	if err != nil {
		return nil, err
	}
	t.tasks[name] = task
	return task, nil
}

// Get returns the task called name
func (t *Tasks) Get(name string) (*daqmx.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	task, ok := t.tasks[name]
	if !ok {
		return nil, ErrUnknownTask
	}
	return task, nil
}

// Names returns the names of the tasks in the registry, sorted
func (t *Tasks) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.tasks))
	for k := range t.tasks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Close closes the task called name and removes it from the registry
func (t *Tasks) Close(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	task, ok := t.tasks[name]
	if !ok {
		return ErrUnknownTask
	}
	delete(t.tasks, name)
	return task.Close()
}

// CloseAll closes every task in the registry
func (t *Tasks) CloseAll() {
	for _, name := range t.Names() {
		t.Close(name)
	}
}

// AddChannel adds the channel described by cs to task
func AddChannel(task *daqmx.Task, cs ChannelSpec) (daqmx.AIChannel, error) {
	tc, err := daqmx.ParseTerminalConfig(cs.TerminalConfig)
	if err != nil {
		return daqmx.AIChannel{}, err
	}
	return task.AIChannels().AddAIVoltageChanConfig(daqmx.AIVoltageChanConfig{
		PhysicalChannel: cs.PhysicalChannel,
		Min:             cs.Min,
		Max:             cs.Max,
		TerminalConfig:  tc})
}

// Load creates each task in ts with its channels.  It stops at the first
// error; tasks already created stay in the registry.
func (t *Tasks) Load(ts []TaskSpec) error {
	for _, cfg := range ts {
		task, err := t.Create(cfg.Name)
		if err != nil {
			return err
		}
		for _, ch := range cfg.Channels {
			if _, err := AddChannel(task, ch); err != nil {
				return err
			}
		}
	}
	return nil
}

// statusOf maps errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrUnknownTask), errors.Is(err, daqmx.ErrTaskClosed):
		return http.StatusNotFound
	case errors.Is(err, daqmx.DuplicateResource):
		return http.StatusConflict
	case errors.Is(err, daqmx.InvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func httpError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusOf(err))
}

type taskName struct {
	Name string `json:"name"`
}

type channelAt struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// ListTasks returns an HTTP handlerfunc that lists the tasks
func ListTasks(t *Tasks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hp := server.HumanPayload{T: types.Invalid, Strs: t.Names()}
		hp.EncodeAndRespond(w, r)
	}
}

// CreateTask returns an HTTP handlerfunc that creates a task from {"name": ...}
// and replies with the name it was given
func CreateTask(t *Tasks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input taskName
		err := json.NewDecoder(r.Body).Decode(&input)
		defer r.Body.Close()
		if err != nil && err != io.EOF { // an empty body asks for a generated name
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		task, err := t.Create(input.Name)
		if err != nil {
			httpError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusCreated, taskName{Name: task.Name()})
	}
}

// DeleteTask returns an HTTP handlerfunc that closes the task in the URL
func DeleteTask(t *Tasks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := t.Close(chi.URLParam(r, "task"))
		if err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// ListChannels returns an HTTP handlerfunc that lists the channels of the task
// in the URL
func ListChannels(t *Tasks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := t.Get(chi.URLParam(r, "task"))
		if err != nil {
			httpError(w, err)
			return
		}
		names, err := task.AIChannels().ChannelNames()
		if err != nil {
			httpError(w, err)
			return
		}
		hp := server.HumanPayload{T: types.Invalid, Strs: names}
		hp.EncodeAndRespond(w, r)
	}
}

// AddVoltageChannel returns an HTTP handlerfunc that adds the channel in the
// request body, a ChannelSpec, to the task in the URL
func AddVoltageChannel(t *Tasks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := t.Get(chi.URLParam(r, "task"))
		if err != nil {
			httpError(w, err)
			return
		}
		var input ChannelSpec
		err = json.NewDecoder(r.Body).Decode(&input)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ch, err := AddChannel(task, input)
		if err != nil {
			httpError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusCreated, server.StrT{Str: ch.Name})
	}
}

// ChannelAt returns an HTTP handlerfunc that looks up a channel of the task
// in the URL by its index
func ChannelAt(t *Tasks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := t.Get(chi.URLParam(r, "task"))
		if err != nil {
			httpError(w, err)
			return
		}
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		chans := task.AIChannels()
		// channels are never removed from a task, so a checked index stays valid
		n, err := chans.Len()
		if err != nil {
			httpError(w, err)
			return
		}
		if idx < 0 || idx >= n {
			http.Error(w, "channel index "+strconv.Itoa(idx)+" out of range, task has "+strconv.Itoa(n)+" channels", http.StatusNotFound)
			return
		}
		ch, err := chans.ChannelAt(idx)
		if err != nil {
			httpError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, channelAt{Index: idx, Name: ch.Name})
	}
}

// HTTPTasks wraps a task registry in an HTTP route table
type HTTPTasks struct {
	// Tasks is the underlying registry
	Tasks *Tasks

	// RouteTable maps URLs to functions
	RouteTable generichttp.RouteTable
}

// NewHTTPTasks returns a new HTTP wrapper around a task registry
func NewHTTPTasks(t *Tasks) HTTPTasks {
	rt := generichttp.RouteTable{
		generichttp.MethodPath{Method: http.MethodGet, Path: "/tasks"}:                         ListTasks(t),
		generichttp.MethodPath{Method: http.MethodPost, Path: "/tasks"}:                        CreateTask(t),
		generichttp.MethodPath{Method: http.MethodDelete, Path: "/tasks/{task}"}:               DeleteTask(t),
		generichttp.MethodPath{Method: http.MethodGet, Path: "/tasks/{task}/channels"}:         ListChannels(t),
		generichttp.MethodPath{Method: http.MethodPost, Path: "/tasks/{task}/channels"}:        AddVoltageChannel(t),
		generichttp.MethodPath{Method: http.MethodGet, Path: "/tasks/{task}/channels/{index}"}: ChannelAt(t),
	}
	return HTTPTasks{Tasks: t, RouteTable: rt}
}

// RT satisfies generichttp.HTTPer
func (h HTTPTasks) RT() generichttp.RouteTable {
	return h.RouteTable
}
