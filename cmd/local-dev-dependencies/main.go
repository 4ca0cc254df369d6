// Command local-dev-dependencies runs a postgres container in the background for local development.
// Once it's up the connection details are written to tmp/postgres.env, which can be used as the .env
// for employee-reviews. Stop it with `local-dev-dependencies stop` or `-s quit`.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sevlyar/go-daemon"

	"github.com/gaqzi/employee-reviews/test"
)

var (
	postgresStartTimeout = 2 * time.Minute
	postgresUp           atomic.Bool
	signal               = flag.String("s", "", `Send signal to the daemon:
  quit — graceful shutdown
  stop — fast shutdown`)
	stopChan = make(chan struct{}, 1)
	doneChan = make(chan struct{}, 1)
	errChan  = make(chan error)

	// The parent tells the daemon where to serve the healthcheck through the environment.
	healthcheckEnvName = "HEALTHCHECK_ADDR"
	envFile            = "tmp/postgres.env"
)

func main() {
	flag.Parse()
	ctx, cancelCtx := context.WithCancel(context.Background())
	daemon.AddCommand(daemon.StringFlag(signal, "quit"), syscall.SIGQUIT, termHandlerCreator(cancelCtx))
	daemon.AddCommand(daemon.StringFlag(signal, "stop"), syscall.SIGTERM, termHandlerCreator(cancelCtx))
	if err := os.MkdirAll("tmp", 0755); err != nil {
		log.Fatalln(err.Error())
	}

	cntxt := &daemon.Context{
		PidFileName: "tmp/local-dev-dependencies.pid",
		PidFilePerm: 0644,
		LogFileName: "tmp/local-dev-dependencies.log",
		LogFilePerm: 0640,
		WorkDir:     "./",
		Umask:       027,
		Args:        []string{"employee-reviews__local-dev-dependencies"},
	}

	if len(daemon.ActiveFlags()) > 0 {
		d, err := cntxt.Search()
		if err != nil {
			log.Fatalf("Unable send signal to the daemon: %s", err.Error())
		}
		if err := daemon.SendCommands(d); err != nil {
			log.Fatalln(err.Error())
		}
		return
	}

	if len(flag.Args()) > 0 {
		switch flag.Arg(0) {
		case "stop":
			stop(cntxt)
		default:
			log.Fatalf("unknown subcommand: %q", flag.Arg(0))
		}
	}

	healthcheckAddr, err := freeAddr()
	if err != nil {
		log.Fatalf("failed to find an address for the healthcheck: %s", err)
	}
	cntxt.Env = append(os.Environ(), fmt.Sprintf("%s=%s", healthcheckEnvName, healthcheckAddr))

	d, err := cntxt.Reborn()
	if err != nil {
		if errors.Is(err, daemon.ErrWouldBlock) {
			// already running, nothing to do
			os.Exit(0)
		}
		log.Fatal("Unable to run: ", err)
	}

	// Only the parent gets a process back, it waits for postgres to be up and exits.
	if d != nil {
		waitForHealthy(healthcheckAddr)
		log.Printf("postgres is up, connection details in %s", envFile)
		return
	}

	defer func() { _ = cntxt.Release() }()

	log.Print("- - - - - - - - - - - - - - -")
	log.Print("up and running")

	go serveHTTP()
	go startPostgres()
	go (func() {
		if err := daemon.ServeSignals(); err != nil {
			log.Printf("failed to respond to signal: %s", err)
		}
	})()

	select {
	case <-ctx.Done():
		log.Printf("context cancelled, shutting down")
		os.Exit(0)
	case err := <-errChan:
		log.Print(err.Error())
		log.Printf("shutting down")
		os.Exit(1)
	}
}

func freeAddr() (string, error) {
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return "", err
	}
	addr := ln.Addr().String()

	return addr, ln.Close()
}

func waitForHealthy(addr string) {
	deadline := time.Now().Add(postgresStartTimeout + 2*time.Second)

	var failedConn int
	for time.Now().Before(deadline) {
		resp, err := http.Get(fmt.Sprintf("http://%s/", addr))
		if err != nil {
			if strings.Contains(err.Error(), "connection refused") {
				// with 100ms between attempts it's 2s without a response
				if failedConn >= 20 {
					log.Fatalf("failed to get health check %d times, check tmp/local-dev-dependencies.log", failedConn)
				}
				time.Sleep(100 * time.Millisecond)
				failedConn++
				continue
			}

			log.Fatalf("failed to call health check endpoint: %s", err)
		}
		failedConn = 0

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			log.Printf("failed to read healthcheck body: %s", err)
		}
		if strings.HasSuffix(string(body), "true") {
			return
		}

		time.Sleep(100 * time.Millisecond)
	}

	log.Fatalf("postgres didn't come up within %s, check tmp/local-dev-dependencies.log", postgresStartTimeout)
}

func stop(cntxt *daemon.Context) {
	proc, err := cntxt.Search()
	if err != nil {
		// can't open the pid file, so let's assume the process isn't running and exit successfully.
		if errors.Is(err, fs.ErrNotExist) {
			os.Exit(0)
		}

		log.Fatalf("failed to find process: %s", err.Error())
	}
	if proc == nil {
		os.Exit(0)
	}

	if err := proc.Signal(syscall.SIGQUIT); err != nil {
		log.Fatalf("failed to signal process: %s", err.Error())
	}

	log.Printf("waiting for shutdown of local dev dependencies to complete")
	for {
		isAlive, err := cntxt.Search()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("error: %q", err)
		}
		if isAlive == nil {
			fmt.Print("\n")
			os.Exit(0)
		}
		fmt.Print(".")
		time.Sleep(100 * time.Millisecond)
	}
}

func serveHTTP() {
	listenAddr := os.Getenv(healthcheckEnvName)
	if listenAddr == "" {
		errChan <- fmt.Errorf("%s is empty in env", healthcheckEnvName)
		return
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("request from %s: %s %q, postgresUp=%t", r.RemoteAddr, r.Method, r.URL, postgresUp.Load())
		_, _ = fmt.Fprintf(w, "postgresUp=%t", postgresUp.Load())
	})
	log.Printf("about to listen to %q", listenAddr)
	if err := http.ListenAndServe(listenAddr, nil); err != nil {
		errChan <- fmt.Errorf("healthcheck stopped: %w", err)
	}
}

func startPostgres() {
	ctx, cancel := context.WithTimeout(context.Background(), postgresStartTimeout)
	conn, done, err := test.StartPostgres(ctx)
	cancel()
	if err != nil {
		errChan <- fmt.Errorf("failed to start postgres: %w", err)
		return
	}

	env := fmt.Sprintf("REVIEWS_DRIVER=postgres\nREVIEWS_DSN=%q\n", conn)
	if err := os.WriteFile(envFile, []byte(env), 0640); err != nil {
		done()
		errChan <- fmt.Errorf("failed to write %s: %w", envFile, err)
		return
	}

	postgresUp.Store(true)
	<-stopChan
	log.Printf("received stop signal")
	done()
	_ = os.Remove(envFile)
	log.Printf("stopped postgres, time to report back")
	doneChan <- struct{}{}
}

func termHandlerCreator(cancel func()) func(sig os.Signal) error {
	return func(sig os.Signal) error {
		log.Println("terminating...")
		stopChan <- struct{}{}
		if sig == syscall.SIGQUIT {
			<-doneChan
		}
		cancel()
		return daemon.ErrStop
	}
}
