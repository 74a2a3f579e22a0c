// turret-watch: prints live telemetry from a running turret dashboard
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-turret/internal/config"
	"github.com/teslashibe/go-turret/internal/log"
	"github.com/teslashibe/go-turret/pkg/protocol"
	"github.com/teslashibe/go-turret/pkg/targeting"
)

var (
	url      = flag.String("url", config.DashboardURL(config.DashboardPort()), "Dashboard websocket URL")
	every    = flag.Int("every", 30, "Print every N telemetry messages")
	kp       = flag.Float64("kp", 0, "Push a new Kp on connect (0 = leave unchanged)")
	logLevel = flag.String("log-level", config.LogLevel(), "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()
	log.Init(*logLevel)

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Error("connect failed", "url", *url, "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	log.Info("connected", "url", *url)

	if *kp > 0 {
		msg, err := protocol.NewTuningMessage(targeting.TuningParams{Kp: *kp})
		if err == nil {
			err = writeMessage(conn, msg)
		}
		if err != nil {
			log.Warn("tuning update failed", "error", err)
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		read(conn)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ping := time.NewTicker(5 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-quit:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		case <-ping.C:
			msg, err := protocol.NewPingMessage(fmt.Sprintf("watch-%d", time.Now().Unix()))
			if err == nil {
				err = writeMessage(conn, msg)
			}
			if err != nil {
				log.Warn("ping failed", "error", err)
				return
			}
		}
	}
}

func writeMessage(conn *websocket.Conn, msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// read prints messages until the connection closes
func read(conn *websocket.Conn) {
	n := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			log.Warn("bad message", "error", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeHello:
			hello, err := msg.GetHelloData()
			if err != nil {
				continue
			}
			fmt.Printf("run %s  profile=%s scenario=%s  kp=%.1f kd=%.2f threshold=%.3f\n",
				hello.RunID, hello.Profile, hello.Scenario,
				hello.Config.Kp, hello.Config.Kd, hello.Config.FireThreshold)

		case protocol.TypeTelemetry:
			n++
			if n%max(*every, 1) != 0 {
				continue
			}
			tel, err := msg.GetTelemetryData()
			if err != nil {
				continue
			}
			fire := " "
			if tel.Fire {
				fire = "*"
			}
			fmt.Printf("%6d %-9s %s err=%+.4f torque=%+8.2f t=%.3f v=(%.1f, %.1f)\n",
				tel.Tick, tel.Mode, fire, tel.AngleError, tel.Torque,
				tel.Aim.FlightTime, tel.Estimate.Velocity.X, tel.Estimate.Velocity.Y)

		case protocol.TypeScore:
			score, err := msg.GetScoreData()
			if err != nil {
				continue
			}
			fmt.Printf("score  hits=%d shots=%d accuracy=%.1f%%\n", score.Hits, score.Shots, 100*score.Accuracy)

		case protocol.TypePong:
			pong, err := msg.GetPongData()
			if err != nil {
				continue
			}
			log.Debug("pong", "id", pong.ID, "latency_ms", pong.LatencyMs)
		}
	}
}
