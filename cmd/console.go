package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kheireddine-anas/busbot/app"
	"github.com/kheireddine-anas/busbot/internal/eventbus"
)

// consoleUser identifies the local console session towards the per-user
// session store.
const consoleUser = "console"

// consoleLoop is a thin inbound command source: it reads the bot grammar
// from r line by line and forwards each command to the service. Deferred
// notifications arrive over the service's event bus.
func consoleLoop(ctx context.Context, svc *app.Service, r io.Reader, w io.Writer) {
	go printNotifications(ctx, svc.Notifications(), w)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		reply := dispatchLine(ctx, svc, scanner.Text())
		if reply != "" {
			fmt.Fprintln(w, reply)
		}
	}
}

func dispatchLine(ctx context.Context, svc *app.Service, line string) string {
	line = strings.TrimSpace(line)
	lower := strings.ToLower(line)
	var (
		reply string
		err   error
	)
	switch {
	case line == "":
		return ""
	case strings.HasPrefix(lower, "time:"):
		reply, err = svc.SetTime(consoleUser, strings.TrimSpace(line[len("time:"):]))
	case strings.HasPrefix(lower, "id:"):
		reply, err = svc.SetDepartureID(consoleUser, strings.TrimSpace(line[len("id:"):]))
	case strings.HasPrefix(lower, "token:"):
		reply, err = svc.SetToken(consoleUser, strings.TrimSpace(line[len("token:"):]))
	case lower == "/run":
		reply, err = svc.ScheduleBooking(consoleUser)
	case lower == "/cancel":
		reply, err = svc.CancelBooking(consoleUser)
	case lower == "/status":
		reply, err = svc.Status(consoleUser)
	case lower == "/bus":
		reply, err = svc.ListCurrent(ctx, consoleUser)
	case lower == "/predict":
		reply, err = svc.PredictUpcoming(ctx, consoleUser)
	case lower == "/token":
		reply, err = svc.AcquireToken(ctx, consoleUser)
	default:
		return "Commands: time: HH:MM:SS | id: N | token: T | /run | /cancel | /status | /bus | /predict | /token"
	}
	if err != nil {
		return "Error: " + err.Error()
	}
	return reply
}

func printNotifications(ctx context.Context, sub <-chan eventbus.Event, w io.Writer) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub:
			if !ok {
				return
			}
			if n, isNotification := e.(app.Notification); isNotification {
				fmt.Fprintln(w, n.Message)
			}
		}
	}
}
