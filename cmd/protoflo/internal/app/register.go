package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// flowhubRegistrationURL is the endpoint the original runtime PUTs its
// runtime record to so flowhub.io can offer it in its runtime picker. A
// %s placeholder receives the runtime's generated id. Variable so tests
// can point it at an httptest server.
var flowhubRegistrationURL = "https://api.flowhub.io/runtimes/%s"

type registration struct {
	Type     string `json:"type"`
	Protocol string `json:"protocol"`
	Address  string `json:"address"`
	ID       string `json:"id"`
	Label    string `json:"label"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Secret   string `json:"secret"`
}

func registerCommand() *cobra.Command {
	var user, label, ip, port string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register this runtime with flowhub.io",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				return fmt.Errorf("register: --user is required")
			}
			return runRegister(cmd.Context(), user, label, ip, port)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "flowhub.io user id to register the runtime under")
	cmd.Flags().StringVar(&label, "label", "protoflo", "human-readable label for the runtime")
	cmd.Flags().StringVar(&ip, "ip", "localhost", "address flowhub.io should connect to")
	cmd.Flags().StringVar(&port, "port", "3569", "port flowhub.io should connect to")
	return cmd
}

func runRegister(ctx context.Context, user, label, ip, port string) error {
	id := uuid.NewString()
	reg := registration{
		Type:     "protoflo",
		Protocol: "websocket",
		Address:  fmt.Sprintf("ws://%s:%s", ip, port),
		ID:       id,
		Label:    label,
		Port:     port,
		User:     user,
		// The original carries a static placeholder here; this protocol
		// version has no real secret negotiation.
		Secret: "9129923421",
	}

	body, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("register: encoding request: %w", err)
	}

	url := fmt.Sprintf(flowhubRegistrationURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("register: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("register: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("register: flowhub.io responded %s", resp.Status)
	}
	fmt.Printf("registered runtime %s as %q\n", id, label)
	return nil
}
