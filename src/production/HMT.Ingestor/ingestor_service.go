package mqtingestor

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	config "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Config"
	logger "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Logger"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
)

// Ingestor subscribes to the sensor topic and feeds parsed readings to the
// scheduler loop. It replaces the simulated sampler when the telemetry
// source is set to mqtt.
type Ingestor struct {
	cfg        *config.Config
	mqttClient mqtt.Client
	readings   chan hmtmodels.Reading
	logger     *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) *Ingestor {
	return &Ingestor{
		cfg:      cfg,
		readings: make(chan hmtmodels.Reading, 4096),
		logger:   log.WithComponent("ingestor"),
	}
}

// Readings is the channel of parsed sensor readings.
func (i *Ingestor) Readings() <-chan hmtmodels.Reading {
	return i.readings
}

func (i *Ingestor) Start() error {
	opts := mqtt.NewClientOptions().
		AddBroker(i.cfg.GetMQTTBrokerURL()).
		SetClientID(i.cfg.MQTT.ClientID).
		SetOrderMatters(true).
		SetKeepAlive(i.cfg.MQTT.KeepAlive).
		SetPingTimeout(i.cfg.MQTT.PingTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetCleanSession(false)

	if i.cfg.MQTT.BrokerUser != "" {
		opts.SetUsername(i.cfg.MQTT.BrokerUser)
		opts.SetPassword(i.cfg.MQTT.BrokerPass)
	}

	if i.cfg.MQTT.UseTLS {
		tlsCfg, err := i.tlsConfig(i.cfg.MQTT.CACertPath)
		if err != nil {
			return err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		i.logger.Logger.Error().Err(err).Msg("MQTT connection lost")
	}
	opts.OnConnect = func(c mqtt.Client) {
		topic := i.cfg.MQTT.Topic
		i.logger.Logger.Info().Str("topic", topic).Msg("MQTT connected, subscribing to topic")
		if token := c.Subscribe(topic, 1, i.onMessage); token.Wait() && token.Error() != nil {
			i.logger.Logger.Error().Err(token.Error()).Str("topic", topic).Msg("Failed to subscribe to MQTT topic")
		}
	}

	i.mqttClient = mqtt.NewClient(opts)
	if tk := i.mqttClient.Connect(); tk.Wait() && tk.Error() != nil {
		return tk.Error()
	}

	return nil
}

func (i *Ingestor) Stop() {
	if i.mqttClient != nil && i.mqttClient.IsConnected() {
		i.mqttClient.Disconnect(500)
	}
	close(i.readings)
}

func (i *Ingestor) IsConnected() bool {
	return i.mqttClient != nil && i.mqttClient.IsConnected()
}

// sensorPayload is the JSON shape published by the sensor gateway. The
// timestamp is optional; readings without one are stamped on arrival.
type sensorPayload struct {
	Timestamp   *time.Time `json:"timestamp"`
	Temperature float64    `json:"temperature"`
	Humidity    float64    `json:"humidity"`
	AirQuality  int        `json:"air_quality"`
	EnergyUsage float64    `json:"energy_usage"`
	WaterUsage  float64    `json:"water_usage"`
	LightLevel  float64    `json:"light_level"`
}

func (i *Ingestor) onMessage(_ mqtt.Client, m mqtt.Message) {
	i.logger.Logger.Debug().Str("topic", m.Topic()).Str("payload", string(m.Payload())).Msg("Received MQTT message")

	var payload sensorPayload
	if err := json.Unmarshal(m.Payload(), &payload); err != nil {
		i.logger.Logger.Warn().Err(err).Str("topic", m.Topic()).Msg("Dropping unparseable sensor payload")
		return
	}

	ts := time.Now().UTC()
	if payload.Timestamp != nil {
		ts = payload.Timestamp.UTC()
	}

	air := payload.AirQuality
	if air < 0 {
		air = 0
	}
	if air > 100 {
		air = 100
	}

	reading := hmtmodels.Reading{
		Timestamp:   ts,
		Temperature: payload.Temperature,
		Humidity:    payload.Humidity,
		AirQuality:  air,
		EnergyUsage: payload.EnergyUsage,
		WaterUsage:  payload.WaterUsage,
		LightLevel:  payload.LightLevel,
	}

	select {
	case i.readings <- reading:
	default:
		i.logger.Logger.Warn().Msg("Reading buffer full, dropping sensor reading")
	}
}

func (i *Ingestor) tlsConfig(caPath string) (*tls.Config, error) {
	if caPath == "" {
		return &tls.Config{MinVersion: tls.VersionTLS12}, nil
	}

	ca, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read broker CA file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("failed to parse broker CA certificate")
	}

	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}
