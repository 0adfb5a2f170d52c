package worker

import (
	"encoding/json"
	"fmt"

	"github.com/BrugadaSyndrome/bslogger"

	"mandelhue/misc"
)

type Settings struct {
	logger bslogger.Logger

	CoordinatorAddress string
	ServerAddress      string
}

func NewSettings(settingsFile string) (Settings, error) {
	s := Settings{
		logger: bslogger.NewLogger("WorkerSettings", bslogger.Normal, nil),
	}
	fileBytes, err := misc.ReadFile(settingsFile)
	if err != nil {
		return s, err
	}
	if err = json.Unmarshal(fileBytes, &s); err != nil {
		return s, fmt.Errorf("unable to parse %s: %w", settingsFile, err)
	}
	if err = s.Verify(); err != nil {
		return s, err
	}
	s.logger.Debug(s.String())
	return s, nil
}

func (s *Settings) String() string {
	output := "\nWorker settings\n"
	output += fmt.Sprintf("Coordinator Address: %s\n", s.CoordinatorAddress)
	output += fmt.Sprintf("My Address: %s\n", s.ServerAddress)
	return output
}

// Verify defaults the coordinator to this machine and picks a free port for the worker's own server.
func (s *Settings) Verify() error {
	localAddress := misc.LocalAddressOr("127.0.0.1")
	if s.CoordinatorAddress == "" {
		s.CoordinatorAddress = fmt.Sprintf("%s:%s", localAddress, "51000")
	}
	if s.ServerAddress == "" {
		port, err := misc.GetFreePort()
		if err != nil {
			return err
		}
		s.ServerAddress = fmt.Sprintf("%s:%d", localAddress, port)
	}
	return nil
}
