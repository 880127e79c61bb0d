package shell

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/d3ce1t/flakeid/api"
	"github.com/d3ce1t/flakeid/idgen"
	"github.com/d3ce1t/flakeid/monitor"
)

// Server is the part of the ID server the shell can drive.
type Server interface {
	NextIDs(count int) ([]int64, error)
	Generator() *idgen.Generator
	Monitor() *monitor.Monitor
	BootID() string
	Uptime() time.Duration
	Sessions() []string
	SaveCheckpoint() error
	Checkpoints() ([]*api.GeneratorStateDTO, error)
	RetireIdentity(dataCenterID int, machineID int) error
}

type Command interface {
	Exec(shell *Shell, args []string)
}

type Shell struct {
	io.ReadWriter
	in       *bufio.Reader
	welcome  string
	prompt   string
	commands map[string]Command
	server   Server
	config   api.Config
	OnStart  func(*Shell)
}

func NewShell(server Server, rw io.ReadWriter, config api.Config) *Shell {
	shell := &Shell{
		welcome:    "Welcome to flakeid server shell",
		prompt:     "flakeid$>",
		server:     server,
		config:     config,
		ReadWriter: rw,
		in:         bufio.NewReader(rw),
	}
	shell.init()
	return shell
}

func (s *Shell) init() {
	s.commands = map[string]Command{
		"help":          &helpCmd{},
		"next_id":       &nextIDCmd{},
		"decode":        &decodeCmd{},
		"info":          &infoCmd{},
		"stats":         &statsCmd{},
		"alerts":        &alertsCmd{},
		"checkpoint":    &checkpointCmd{},
		"checkpoints":   &checkpointsCmd{},
		"retire":        &retireCmd{},
		"list_sessions": &listSessionsCmd{},
	}
}

// Shell wrapper to manage errors
func (s *Shell) Run() {

	if s.OnStart != nil {
		s.OnStart(s)
	}

	fmt.Fprintf(s, "\n%s\n\n", s.welcome)
	exit := false

	for !exit {
		exit = s.executeShell()
	}

	fmt.Fprintln(s, "Good bye")
	log.Println("Shell session terminated")
}

func (s *Shell) executeShell() (exit bool) {

	// Defer recovery
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				if err == io.EOF {
					exit = true
				} else {
					exit = false
					fmt.Fprintf(s, "Error: %v\n", err)
					log.Printf("Shell Error: %v\n", err)
				}
			} else {
				exit = true
				log.Printf("Shell Error: %v\n", r)
			}
		}
	}()

	for {
		// Show prompt
		fmt.Fprint(s, s.prompt+" ")

		// Read command
		line, err := s.in.ReadString('\n')
		if err == io.EOF && len(line) > 0 {
			err = nil
		}
		manageShellError(err)

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		if args[0] == "exit" {
			return true
		}

		if command, ok := s.commands[args[0]]; ok {
			command.Exec(s, args)
		} else {
			fmt.Fprintf(s, "Command %s does not exist\n", args[0])
		}
	} // Loop
}

func manageShellError(err error) {
	if err != nil {
		panic(err)
	}
}

func ff(text interface{}, length int) string {
	s := fmt.Sprintf("%v", text)
	if len(s) > length {
		s = s[:length]
	}
	return s
}

func rp(str string, length int) string {
	return strings.Repeat(str, length)
}
