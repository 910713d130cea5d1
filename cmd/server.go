package cmd

import (
	"OnAirFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the OnAirFM server",
	Long:  `Start the OnAirFM HTTP server serving the station API and live websocket feed.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
