package status

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// CheckBroker verifies that the configured MQTT broker accepts connections.
// It connects with a throwaway client ID and disconnects immediately.
func CheckBroker(host string, port int, timeout time.Duration) error {
	if port <= 0 {
		port = 1883
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", host, port)).
		SetClientID(fmt.Sprintf("frigatectl-probe-%d", time.Now().UnixNano())).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectTimeout(timeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		client.Disconnect(0)
		return errors.New("broker connect timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("broker connect failed: %w", err)
	}
	client.Disconnect(250)
	return nil
}
