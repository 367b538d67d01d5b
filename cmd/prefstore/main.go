package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/prefstore/internal/profile"
	"github.com/hrygo/prefstore/store"
	"github.com/hrygo/prefstore/store/db"
)

var rootCmd = &cobra.Command{
	Use:           "prefstore",
	Short:         "Inspect and edit a preference store backing file",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the store ("prod", "dev" or "demo")`)
	rootCmd.PersistentFlags().String("data", ".", "data directory holding the backing store file")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver ("sqlite" or "postgres")`)
	rootCmd.PersistentFlags().String("dsn", "", "database connection string (defaults to a file in the data directory for sqlite)")

	for _, flag := range []string{"mode", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("prefstore")
	viper.AutomaticEnv()

	rootCmd.AddCommand(getCmd, setCmd, listCmd)
}

// newStore wires profile -> driver -> store, the same order the embedding
// application uses at startup.
func newStore() (*store.Store, error) {
	p := &profile.Profile{
		Mode:   viper.GetString("mode"),
		Data:   viper.GetString("data"),
		Driver: viper.GetString("driver"),
		DSN:    viper.GetString("dsn"),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	driver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, err
	}
	return store.New(driver, store.NewJSONCodec(), p), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
