package client

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/ssh/terminal"

	"relic-exchange/internal/api"
)

// Login prompts for credentials on the plain terminal, before termbox takes
// it over, and exchanges them for a session token. The password is read with
// echo off.
func Login(ctx context.Context, apiClient *api.Client) (string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	password, err := terminal.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}

	token, err := apiClient.Login(ctx, username, string(password))
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	return token, nil
}
