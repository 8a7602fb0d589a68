package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/spf13/cobra"

	yml "gopkg.in/yaml.v2"

	"github.jpl.nasa.gov/bdube/nidaq/daqmx"
	"github.jpl.nasa.gov/bdube/nidaq/daqmx/nidaqmx"
	"github.jpl.nasa.gov/bdube/nidaq/daqmx/simulated"
	"github.jpl.nasa.gov/bdube/nidaq/generichttp"
	"github.jpl.nasa.gov/bdube/nidaq/generichttp/daq"
	"github.jpl.nasa.gov/bdube/nidaq/server/middleware/locker"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "daqmx-http.yml"
	k              = koanf.New(".")
)

type config struct {
	// Addr is the address to listen on, host:port
	Addr string `yaml:"Addr" koanf:"Addr"`

	// Root is the URL stem the routes are mounted under
	Root string `yaml:"Root" koanf:"Root"`

	// Driver is "nidaqmx" for hardware or "simulated"
	Driver string `yaml:"Driver" koanf:"Driver"`

	// Devices maps simulated device names to their number of AI channels
	Devices map[string]int `yaml:"Devices" koanf:"Devices"`

	// Tasks are created when the server boots
	Tasks []daq.TaskSpec `yaml:"Tasks" koanf:"Tasks"`
}

func setupconfig() {
	k.Load(structs.Provider(config{
		Addr:    ":8000",
		Root:    "/",
		Driver:  "nidaqmx",
		Devices: simulated.DefaultDevices,
		Tasks:   []daq.TaskSpec{}}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func loadconfig() (config, error) {
	c := config{}
	err := k.Unmarshal("", &c)
	return c, err
}

var rootCmd = &cobra.Command{
	Use:   "daqmx-http",
	Short: "daqmx-http exposes NI-DAQmx tasks over HTTP",
	Long: `daqmx-http exposes NI-DAQmx analog input tasks over HTTP.
This enables a server-client architecture,
and the clients can leverage the excellent HTTP
libraries for any programming language,
instead of linking the DAQmx C library.

daqmx-http is amenable to configuration via its .yaml file.  For a primer on YAML, see
https://yaml.org/start.html

When no configuration is provided, the defaults are used.
The command mkconf generates the configuration file with the default values.

Driver "simulated" serves the Devices in the config without any hardware,
which is useful for developing clients.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupconfig()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the server",
	RunE:  run,
}

var mkconfCmd = &cobra.Command{
	Use:   "mkconf",
	Short: "Write " + ConfigFileName + " with the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadconfig()
		if err != nil {
			return err
		}
		f, err := os.Create(ConfigFileName)
		if err != nil {
			return err
		}
		defer f.Close()
		return yml.NewEncoder(f).Encode(c)
	},
}

var confCmd = &cobra.Command{
	Use:   "conf",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadconfig()
		if err != nil {
			return err
		}
		return yml.NewEncoder(os.Stdout).Encode(c)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("daqmx-http version %v\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(mkconfCmd)
	rootCmd.AddCommand(confCmd)
	rootCmd.AddCommand(versionCmd)
}

func openDriver(cfg config) (daqmx.Driver, error) {
	switch strings.ToLower(cfg.Driver) {
	case "nidaqmx", "":
		return nidaqmx.New()
	case "simulated":
		return simulated.New(cfg.Devices), nil
	default:
		return nil, fmt.Errorf("unknown driver %q, must be nidaqmx or simulated", cfg.Driver)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadconfig()
	if err != nil {
		return err
	}
	drv, err := openDriver(cfg)
	if err != nil {
		return err
	}
	log.Printf("using the %s driver\n", cfg.Driver)

	tasks := daq.NewTasks(drv)
	defer tasks.CloseAll()
	if err := tasks.Load(cfg.Tasks); err != nil {
		return fmt.Errorf("creating bootup tasks: %w", err)
	}
	for _, name := range tasks.Names() {
		log.Printf("created task %s\n", name)
	}

	w := daq.NewHTTPTasks(tasks)
	lock := locker.New()
	locker.Inject(w, lock)

	// clean up the submux string
	hndlrS := generichttp.SubMuxSanitize(cfg.Root)
	root := chi.NewRouter()
	root.Use(middleware.Logger)
	mux := chi.NewRouter()
	mux.Use(lock.Check)
	w.RT().Bind(mux)
	root.Mount(hndlrS, mux)

	srv := &http.Server{Addr: cfg.Addr, Handler: root}
	errs := make(chan error, 1)
	go func() {
		log.Println("now listening for requests at ", cfg.Addr+hndlrS)
		errs <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errs:
		return err
	case s := <-sig:
		log.Printf("received %v, shutting down\n", s)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
