package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/whyrusleeping/hellabot"

	"kgeyst.com/digiteye/pkg/common"
	"kgeyst.com/digiteye/pkg/digiteye/api"
	"kgeyst.com/digiteye/pkg/digiteye/domain"
)

const jobQueueCapacity = 16

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	agentName := config.GetStringOrDefault(api.ConfigKeyAgentName, "DigitEye")
	roomName := config.GetStringOrDefault(api.ConfigKeyRoomName, "DigitRoom")
	serverName := config.GetStringOrDefault(api.ConfigKeyServerName, "irc.euirc.net:6667")
	credential := os.Getenv(config.GetStringOrDefault(api.ConfigKeyCredentialEnvVar, api.DefaultCredentialEnvVar))
	logger := api.NewLogger(config)
	digiteye := api.NewAPI(config, logger)
	metricsAddress := config.GetString(api.ConfigKeyMetricsAddress)
	if metricsAddress != "" {
		go serveMetrics(metricsAddress, digiteye, logger)
	}
	// Triggers run concurrently; the queue keeps a single vision query in flight.
	jobQueue := common.NewJobQueue(jobQueueCapacity, logger)
	defer jobQueue.Stop()
	ircBot, err := hbot.NewBot(serverName, agentName)
	if err != nil {
		return err
	}
	var trigger = hbot.Trigger{
		Condition: func(b *hbot.Bot, m *hbot.Message) bool {
			return m.Command == "PRIVMSG" && strings.HasPrefix(strings.ToLower(m.Content), strings.ToLower(agentName))
		},
		Action: func(b *hbot.Bot, m *hbot.Message) bool {
			what := strings.TrimSpace(m.Content[len(agentName):])
			what = strings.TrimPrefix(what, ",")
			if len(what) == 0 || len(m.To) == 0 || m.To[0] != '#' {
				return false
			}
			queued := jobQueue.Enqueue(func() error {
				response, err := digiteye.RecognizeMessage(what, credential)
				if err != nil {
					b.Reply(m, m.From+" the eye could not open: "+err.Error())
					return err
				}
				b.Reply(m, m.From+" "+formatReply(response))
				return nil
			})
			if !queued {
				b.Reply(m, m.From+" too many drawings at once, try again later")
			}
			return true
		},
	}
	ircBot.AddTrigger(trigger)
	ircBot.Channels = []string{"#" + roomName}
	ircBot.Run()
	return nil
}

// IRC messages are single-line: prefer the recognized digit, otherwise the first line of the answer.
func formatReply(response string) string {
	digit, ok := domain.ExtractDigit(response)
	if ok {
		return "I see the digit " + string(digit)
	}
	firstLine, _, _ := strings.Cut(strings.TrimSpace(response), "\n")
	return firstLine
}

func serveMetrics(address string, digiteye api.API, logger common.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", digiteye.MetricsHandler())
	err := http.ListenAndServe(address, mux)
	if err != nil {
		logger.Log("metrics server stopped: " + err.Error() + "\n")
	}
}
