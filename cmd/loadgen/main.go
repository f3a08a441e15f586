package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if env := os.Getenv("MQTT_BROKER_URL"); env != "" {
		broker = env
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "match":
		matchCmd(broker, args)
	case "populate":
		populateCmd(broker, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`matchd loadgen - drive simulated players through the matchmaker

USAGE:
  loadgen <command> [options]

COMMANDS:
  match     Run players through login, queue, prestart and launch
  populate  Log in a batch of users so the roster has data
  help      Show this help message

ENVIRONMENT:
  MQTT_BROKER_URL   Broker address (default: tcp://localhost:1883)

EXAMPLES:
  # Two solo players through a full 1v1 match, reporting the result
  loadgen match --mode=rk1v1 --count=2 --finish

  # Six players queueing 5v5 with a 3-per-side deployment
  loadgen match --mode=ng5v5 --count=6

  # Register 50 users
  loadgen populate --count=50`)
}

func matchCmd(broker string, args []string) {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	mode := fs.String("mode", "rk1v1", "match mode to queue")
	count := fs.Int("count", 2, "number of solo players")
	finish := fs.Bool("finish", false, "report game_over for team 0 after launch")
	timeout := fs.Duration("timeout", 30*time.Second, "per-step wait")
	fs.Parse(args)

	players := make([]*Player, 0, *count)
	for i := 0; i < *count; i++ {
		id := fmt.Sprintf("sim%02d", i+1)
		p, err := Connect(broker, id)
		if err != nil {
			fatal(err)
		}
		defer p.Close()
		players = append(players, p)
	}

	fmt.Printf("=== %d players, mode %s ===\n", *count, *mode)

	for _, p := range players {
		step(p.Send(fmt.Sprintf("member/%s/send/login", p.ID), map[string]any{"name": "Sim " + p.ID}))
		if _, ok := p.WaitFor("login", *timeout); !ok {
			fatal(fmt.Errorf("%s: no login response", p.ID))
		}
		step(p.Send(fmt.Sprintf("room/%s/send/create", p.ID), map[string]any{"mode": *mode}))
		step(p.Send(fmt.Sprintf("room/%s/send/start_queue", p.ID), nil))
	}
	fmt.Printf("%d rooms queued\n", *count)

	// Every player accepts the check-board as soon as it arrives.
	var gameID uint64
	for _, p := range players {
		msg, ok := p.WaitFor("prestart", *timeout)
		if !ok {
			fatal(fmt.Errorf("%s: no prestart notice (not enough players for a match?)", p.ID))
		}
		var notice struct {
			GameID uint64 `json:"gameId"`
		}
		json.Unmarshal(msg.Payload, &notice)
		gameID = notice.GameID
		step(p.Send(fmt.Sprintf("room/%s/send/prestart_get", p.ID), map[string]any{"id": p.ID}))
		step(p.Send(fmt.Sprintf("room/%s/send/prestart", p.ID), map[string]any{"id": p.ID, "accept": true}))
	}
	fmt.Printf("all accepted, game %d\n", gameID)

	for _, p := range players {
		msg, ok := p.WaitFor("game_singal", *timeout)
		if !ok {
			fatal(fmt.Errorf("%s: no launch signal", p.ID))
		}
		var sig struct {
			Server string `json:"server"`
			Port   int    `json:"port"`
		}
		json.Unmarshal(msg.Payload, &sig)
		fmt.Printf("%s -> %s:%d\n", p.ID, sig.Server, sig.Port)
	}

	if *finish {
		// Let the draft run its countdowns before reporting the result.
		fmt.Println("waiting for the draft to finish...")
		time.Sleep(5 * time.Second)
		step(players[0].Send(fmt.Sprintf("game/%d/send/game_over", gameID), map[string]any{"winTeam": 0}))
		if _, ok := players[0].WaitFor("rating", *timeout); !ok {
			fmt.Println("no rating notice yet (draft may still be running)")
		} else {
			fmt.Println("game settled")
		}
	}
	fmt.Println("done")
}

func populateCmd(broker string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	count := fs.Int("count", 10, "number of users to register")
	fs.Parse(args)

	for i := 0; i < *count; i++ {
		id := fmt.Sprintf("user%03d", i+1)
		p, err := Connect(broker, id)
		if err != nil {
			fatal(err)
		}
		step(p.Send(fmt.Sprintf("member/%s/send/login", id), map[string]any{"name": "User " + id}))
		if _, ok := p.WaitFor("login", 5*time.Second); !ok {
			fmt.Printf("%s: no response\n", id)
		}
		p.Close()
	}
	fmt.Printf("registered %d users\n", *count)
}

func step(err error) {
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
