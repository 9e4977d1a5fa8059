package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/config"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for DASHBOARD_PASSWORD_HASH",
	Long:  `Reads a password from stdin and prints the hash to store in DASHBOARD_PASSWORD_HASH.`,
	Args:  cobra.NoArgs,
	RunE:  runHashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper()
	if err != nil {
		return err
	}
	passwords, err := config.NewPasswordConfig(config.ServerConfig{
		BcryptCost: v.GetInt("server.bcrypt_cost"),
		Pepper:     v.GetString("server.password_pepper"),
	})
	if err != nil {
		return err
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return fmt.Errorf("password is empty")
	}

	hash, err := passwords.HashPassword(pw)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
