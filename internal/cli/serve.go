package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/recipeview/internal/api"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recipe HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Info("starting recipeview", "port", cfg.Port, "auth", cfg.APIKey != "")
		return api.ListenAndServe(ctx, ":"+cfg.Port, api.NewServer(nil, log, cfg), log)
	},
}

func init() {
	serveCmd.Flags().String("port", "8090", "listen port")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}
