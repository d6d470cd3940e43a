/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	stopper interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gocfd-heat",
	Short: "Discontinuous Galerkin heat conduction and fluid/wall heat transfer",
	Long: `
Solves the heat equation and the coupled compressible Navier-Stokes / solid
wall conduction problem in one dimension with nodal Discontinuous Galerkin
operators.

gocfd-heat heat|coupled|convergence`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch strings.ToLower(viper.GetString("profile")) {
		case "cpu":
			stopper = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		case "mem":
			stopper = profile.Start(profile.MemProfile, profile.ProfilePath("."))
		case "":
		default:
			fmt.Printf("unknown profile type %q, must be cpu or mem\n", viper.GetString("profile"))
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if stopper != nil {
			stopper.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gocfd-heat.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "write a cpu or mem profile to the current directory")
	rootCmd.PersistentFlags().String("runLog", "", "sqlite file recording per step quantities")
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("runLog", rootCmd.PersistentFlags().Lookup("runLog"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".gocfd-heat" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gocfd-heat")
	}
	viper.SetEnvPrefix("GOCFDHEAT")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
