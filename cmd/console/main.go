package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"kgeyst.com/digiteye/pkg/common"
	"kgeyst.com/digiteye/pkg/digiteye/api"
)

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := common.LoadConfigOrEmpty("config.yaml")
	if err != nil {
		return err
	}
	digiteye := api.NewAPI(config, api.NewLogger(config))
	rl, err := readline.New("image> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	credential, err := readCredential(rl, config)
	if err != nil {
		return err
	}
	fmt.Println("Enter the path (or URL) of a drawn digit. An optional follow-up question can follow after a space.")
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		response, err := recognize(digiteye, line, credential)
		if err != nil {
			fmt.Printf("The eye could not open: %s\n", err)
			continue
		}
		fmt.Printf("### The revelation:\n%s\n", response)
	}
	return nil
}

// The credential comes from the environment or is typed in with echo disabled; it's kept in memory only.
func readCredential(rl *readline.Instance, config *common.Config) (string, error) {
	envVar := config.GetStringOrDefault(api.ConfigKeyCredentialEnvVar, api.DefaultCredentialEnvVar)
	credential := os.Getenv(envVar)
	if credential != "" {
		return credential, nil
	}
	password, err := rl.ReadPassword("API credential: ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(password)), nil
}

func recognize(digiteye api.API, line, credential string) (string, error) {
	if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
		return digiteye.RecognizeMessage(line, credential)
	}
	path, followUp, _ := strings.Cut(line, " ")
	image, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return digiteye.Recognize(image, followUp, credential)
}
