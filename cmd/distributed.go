package cmd

import (
	"github.com/spf13/cobra"

	"mandelhue/coordinator"
	"mandelhue/worker"
)

var (
	coordinatorSettingsFile string
	workerSettingsFile      string
)

var coordinatorCmd = &cobra.Command{
	Use:   "coordinator",
	Short: "Hand out the frames of a run to workers and save the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger("Coordinator")
		c, err := coordinator.NewCoordinatorFromFile(coordinatorSettingsFile)
		if err != nil {
			return err
		}
		logger.Info("Starting coordinator")
		if err = c.Start(); err != nil {
			return err
		}
		c.Wait()
		logger.Info("Shutting down")
		return nil
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Evaluate columns handed out by a coordinator",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := worker.NewSettings(workerSettingsFile)
		if err != nil {
			return err
		}
		w, err := worker.NewWorker(settings)
		if err != nil {
			return err
		}
		return w.Run()
	},
}

func init() {
	coordinatorCmd.Flags().StringVarP(&coordinatorSettingsFile, "settings", "s", "coordinator.json", "coordinator settings file")
	workerCmd.Flags().StringVarP(&workerSettingsFile, "settings", "s", "worker.json", "worker settings file")
}
