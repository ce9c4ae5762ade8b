package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/twinj/uuid"
	"github.com/wcd-ekocoy/wow-achievements/cmd/app/commands"
	"github.com/wcd-ekocoy/wow-achievements/pkg/command"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging/stackdriver"
	"github.com/wcd-ekocoy/wow-achievements/pkg/sotah"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

type commandMap map[string]func() error

// ID represents this run's unique id
var ID uuid.UUID

func main() {
	// assigning global ID
	ID = uuid.NewV4()

	// parsing the command flags
	var (
		app           = kingpin.New("wow-achievements", "A web application for browsing World of Warcraft achievements.")
		verbosity     = app.Flag("verbosity", "Log verbosity").Default("info").Short('v').String()
		envFilepath   = app.Flag("env-file", "Relative path to a .env file").Default(".env").OverrideDefaultFromEnvar("ENV_FILE").String()
		jsonLogs      = app.Flag("json-logs", "Log as json").Default("false").OverrideDefaultFromEnvar("JSON_LOGS").Bool()
		gcloudProject = app.Flag("gcloud-project", "GCloud project ID for stackdriver logging").Default("").OverrideDefaultFromEnvar("GCLOUD_PROJECT").String()

		apiCommand           = app.Command(string(commands.API), "For running the web application.")
		pruneSessionsCommand = app.Command(string(commands.PruneSessions), "For pruning expired sessions and pending logins.")
	)
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	logVerbosity, err := logrus.ParseLevel(*verbosity)
	if err != nil {
		logging.WithField("error", err.Error()).Fatal("Could not parse log level")

		return
	}
	logging.SetLevel(logVerbosity)
	if *jsonLogs {
		logging.UseJSON()
	}

	// optionally loading a .env file, set variables win
	if _, err := os.Stat(*envFilepath); err == nil {
		if err := godotenv.Load(*envFilepath); err != nil {
			logging.WithFields(logrus.Fields{
				"error":    err.Error(),
				"filepath": *envFilepath,
			}).Fatal("Could not load env file")

			return
		}

		logging.WithField("filepath", *envFilepath).Info("Loaded env file")
	}

	// loading the config
	c, err := sotah.NewConfigFromEnv()
	if err != nil {
		logging.WithField("error", err.Error()).Fatal("Could not load config")

		return
	}

	// optionally adding stackdriver hook, closed before every exit below
	closeHook := func() {}
	if *gcloudProject != "" {
		stackdriverHook, err := stackdriver.NewHook(*gcloudProject, cmd)
		if err != nil {
			logging.WithFields(logrus.Fields{
				"error":     err.Error(),
				"projectID": *gcloudProject,
			}).Fatal("Could not create new stackdriver logrus hook")

			return
		}

		logging.AddHook(stackdriverHook)
		closeHook = func() {
			stackdriverHook.Close()
		}
	}

	logging.WithFields(logrus.Fields{
		"command": cmd,
		"run-id":  ID.String(),
	}).Info("Running command")

	cMap := commandMap{
		apiCommand.FullCommand(): func() error {
			return command.API(c)
		},
		pruneSessionsCommand.FullCommand(): func() error {
			return command.PruneSessions(c)
		},
	}
	os.Exit(runCommand(cMap, cmd, closeHook))
}

// runCommand runs the named command and returns the exit code, closeHook is called before returning
func runCommand(cMap commandMap, cmd string, closeHook func()) int {
	defer closeHook()

	cmdFunc, ok := cMap[cmd]
	if !ok {
		logging.WithField("command", cmd).Error("Invalid command")

		return 1
	}

	if err := cmdFunc(); err != nil {
		logging.WithFields(logrus.Fields{
			"error":   err.Error(),
			"command": cmd,
		}).Error("Failed to execute command")

		return 1
	}

	return 0
}
