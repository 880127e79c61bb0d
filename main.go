package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/d3ce1t/flakeid/api"
	"github.com/d3ce1t/flakeid/cqldao"
	"github.com/d3ce1t/flakeid/httpapi"
	"github.com/d3ce1t/flakeid/idgen"
	"github.com/d3ce1t/flakeid/memdao"
	"github.com/d3ce1t/flakeid/monitor"
)

const (
	DB_RETRY_INTERVAL = 5 * time.Second
	SHUTDOWN_TIMEOUT  = 5 * time.Second
)

func main() {

	// Process args

	configFile := flag.String("config", "flakeid.yaml", "path to the configuration file")
	maintenance := flag.Bool("enable-maintenance", false, "reject every request with a maintenance error")
	flag.Parse()

	config, err := loadConfigFromFile(*configFile)
	if err != nil {
		log.Fatalln("Error loading configuration:", err)
	}

	if *maintenance {
		config.data.MaintenanceMode = true
	}

	if config.ShowTestModeWarning() {
		fmt.Println("----------------------------------------")
		fmt.Println("! WARNING WARNING WARNING              !")
		fmt.Println("! You have started a testing server    !")
		fmt.Println("! WARNING WARNING WARNING              !")
		fmt.Println("----------------------------------------")
	}

	// Initialisation

	generator, err := idgen.New(config.DataCenterID(), config.MachineID(), idgen.WithEpoch(config.Epoch()))
	if err != nil {
		log.Fatalln("Error creating generator:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stateDAO, dbSession := connectStateDAO(ctx, config)
	if dbSession != nil {
		defer dbSession.Close()
	}

	server := NewServer(config, generator, stateDAO, monitor.New(monitor.DefaultHistorySize))
	go server.watchAlerts(ctx)

	if err := server.RestoreCheckpoint(ctx); err != nil {
		log.Fatalln("Error restoring checkpoint:", err)
	}

	checkpointDone := make(chan struct{})
	go func() {
		server.RunCheckpointer(ctx)
		close(checkpointDone)
	}()

	if err := server.Listen(); err != nil {
		log.Fatalln("Couldn't start listening:", err)
	}

	// Create HTTP API server and start
	var httpServer *httpapi.HTTPServer
	if config.HTTPEnabled() {
		httpServer = httpapi.New(server, config)
		go func() {
			if err := httpServer.Run(); err != nil {
				log.Println("HTTP API Error:", err)
			}
		}()
	}

	// Create shell and start listening in ssh port
	var sshListener net.Listener
	if config.SSHEnabled() {
		listener, sshConfig, err := server.listenSSH()
		if err != nil {
			log.Println("Admin shell disabled:", err)
		} else {
			sshListener = listener
			go server.startShell(listener, sshConfig)
		}
	}

	// Shutdown on signal
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Printf("Received %v, shutting down\n", sig)
		server.Close()
	}()

	// start server loop
	if err := server.Run(); err != ErrServerClosed {
		log.Println("Server Error:", err)
		server.Close()
	}

	if httpServer != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Println("HTTP API Shutdown Error:", err)
		}
		cancelShutdown()
	}

	if sshListener != nil {
		sshListener.Close()
	}

	cancel()
	<-checkpointDone

	log.Println("Server stopped")
}

// connectStateDAO returns the checkpoint store. With the database disabled
// checkpoints only live as long as the process.
func connectStateDAO(ctx context.Context, config api.Config) (api.StateDAO, *cqldao.GocqlSession) {

	if !config.DbEnabled() {
		log.Println("Database disabled, checkpoints are kept in memory")
		return memdao.NewStateDAO(), nil
	}

	session := cqldao.NewSession(config.DbKeyspace(), config.DbCQLVersion(), config.DbAddress()...)

	// Connect to database
	err := session.Connect()

	for err != nil {
		log.Println(err)
		select {
		case <-time.After(DB_RETRY_INTERVAL):
		case <-ctx.Done():
			log.Fatalln("Couldn't connect to Cassandra:", ctx.Err())
		}
		err = session.Connect()
	}

	log.Printf("Connected to Cassandra successfully (keyspace %v)\n", session.Keyspace())

	if err := cqldao.CreateSchema(session); err != nil {
		log.Println("Error creating schema:", err)
	}

	return cqldao.NewStateDAO(session), session
}
