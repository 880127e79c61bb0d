package main

import (
	"crypto/subtle"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/d3ce1t/flakeid/api"
	"github.com/d3ce1t/flakeid/shell"

	"golang.org/x/crypto/ssh"
)

// startShell serves the admin shell over SSH until the listener fails.
func (server *Server) startShell(listener net.Listener, config *ssh.ServerConfig) {

	defer listener.Close()

	// Manage incoming connections
	for {
		nConn, err := listener.Accept()
		if err != nil {
			log.Printf("SSH Terminal: stop accepting connections (%v)\n", err)
			return
		}
		go server.manageSSHSession(nConn, config)
	}
}

func (server *Server) listenSSH() (net.Listener, *ssh.ServerConfig, error) {

	config, err := loadSSHConfig(server.Config)
	if err != nil {
		return nil, nil, err
	}

	addr := fmt.Sprintf("%v:%v", server.Config.SSHListenAddress(), server.Config.SSHListenPort())
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	log.Println("Admin shell listening on", listener.Addr())
	return listener, config, nil
}

func (server *Server) manageSSHSession(nConn net.Conn, config *ssh.ServerConfig) {

	defer func() {
		if r := recover(); r != nil {
			log.Println("Shell Session Error:", r)
		}
		nConn.Close()
	}()

	// Before use, a handshake must be performed on the incoming
	// net.Conn.
	serverConn, chans, reqs, err := ssh.NewServerConn(nConn, config)
	if err != nil {
		panic(fmt.Errorf("failed to handshake: %v", err))
	}
	defer serverConn.Close()

	log.Printf("SSH login from %v (%v)\n", serverConn.RemoteAddr(), serverConn.User())

	// The incoming Request channel must be serviced.
	go ssh.DiscardRequests(reqs)

	// Service the incoming Channel channel.
	var newChannel ssh.NewChannel

	for newChannel = range chans {
		// Only "session" channels are used by the shell
		if newChannel.ChannelType() != "session" {
			newChannel.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		break
	}

	if newChannel == nil {
		return
	}

	channel, requests, err := newChannel.Accept()
	if err != nil {
		panic("could not accept channel")
	}
	defer channel.Close()

	// Only the "shell" request without a command is accepted
	go func(in <-chan *ssh.Request) {
		for req := range in {
			ok := req.Type == "shell" && len(req.Payload) == 0
			req.Reply(ok, nil)
		}
	}(requests)

	sh := shell.NewShell(server, channel, server.Config)
	if server.Config.ShowTestModeWarning() {
		sh.OnStart = func(shell *shell.Shell) {
			fmt.Fprint(shell, "------------------------------------------\n")
			fmt.Fprint(shell, "! WARNING WARNING WARNING                !\n")
			fmt.Fprint(shell, "! You have connected to a testing server !\n")
			fmt.Fprint(shell, "! WARNING WARNING WARNING                !\n")
			fmt.Fprint(shell, "------------------------------------------\n")
		}
	}
	sh.Run()
}

func loadSSHConfig(cfg api.Config) (*ssh.ServerConfig, error) {

	if cfg.SSHPassword() == "" {
		return nil, fmt.Errorf("ssh_password must be set to enable the admin shell")
	}

	// An SSH server is represented by a ServerConfig, which holds
	// certificate details and handles authentication of ServerConns.
	config := &ssh.ServerConfig{
		PasswordCallback: passwordCallback(cfg.SSHUser(), cfg.SSHPassword()),
	}

	privateBytes, err := os.ReadFile(cfg.SSHHostKey())
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %v", err)
	}

	private, err := ssh.ParsePrivateKey(privateBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %v", err)
	}

	config.AddHostKey(private)

	return config, nil
}

func passwordCallback(user string, password string) func(ssh.ConnMetadata, []byte) (*ssh.Permissions, error) {
	return func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
		userOk := subtle.ConstantTimeCompare([]byte(c.User()), []byte(user)) == 1
		passOk := subtle.ConstantTimeCompare(pass, []byte(password)) == 1
		if userOk && passOk {
			return nil, nil
		}
		return nil, fmt.Errorf("password rejected for %q", c.User())
	}
}
