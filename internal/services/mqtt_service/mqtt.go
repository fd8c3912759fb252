package mqtt_service

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/iwtcode/bambuService/internal/config"
	"github.com/iwtcode/bambuService/internal/domain/models"
	"github.com/iwtcode/bambuService/internal/interfaces"
	"github.com/iwtcode/bambuService/internal/middleware/logging"
	apperrors "github.com/iwtcode/bambuService/pkg/errors"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const eventBufferSize = 64

// MqttTransport - транспорт телеметрии принтера поверх MQTT.
// Принтер публикует отчеты в device/{serial}/report, команды
// отправляются в device/{serial}/request.
type MqttTransport struct {
	cfg    *config.AppConfig
	log    *logging.Logger
	client mqtt.Client
	events chan models.PrinterEvent
}

// NewMqttTransport создает транспорт, но не подключается к брокеру.
func NewMqttTransport(cfg *config.AppConfig, logger *logging.Logger) interfaces.PrinterTransport {
	t := &MqttTransport{
		cfg:    cfg,
		log:    logger.WithPrefix("mqtt"),
		events: make(chan models.PrinterEvent, eventBufferSize),
	}

	broker := fmt.Sprintf("tls://%s:%d", cfg.Bambu.IP, cfg.Bambu.MqttPort)

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("bambuService-" + uuid.NewString()[:8]).
		SetUsername(cfg.Bambu.Username).
		SetPassword(cfg.Bambu.AccessCode).
		SetTLSConfig(&tls.Config{InsecureSkipVerify: true}). // принтер использует самоподписанный сертификат
		SetAutoReconnect(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second).
		SetOnConnectHandler(t.onConnect).
		SetConnectionLostHandler(t.onConnectionLost)

	t.client = mqtt.NewClient(opts)
	return t
}

// Connect выполняет подключение к брокеру принтера.
func (t *MqttTransport) Connect() error {
	t.log.Info("Connecting to printer MQTT broker", "ip", t.cfg.Bambu.IP, "port", t.cfg.Bambu.MqttPort)
	token := t.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("не удалось подключиться к MQTT брокеру принтера: %w", err)
	}
	return nil
}

// Disconnect завершает соединение, давая клиенту время дослать пакеты.
func (t *MqttTransport) Disconnect() {
	if t.client.IsConnected() {
		t.client.Disconnect(250)
	}
}

func (t *MqttTransport) IsConnected() bool {
	return t.client.IsConnected()
}

// Events возвращает единый канал событий транспорта.
func (t *MqttTransport) Events() <-chan models.PrinterEvent {
	return t.events
}

// PublishCommand отправляет команду в топик запросов принтера.
func (t *MqttTransport) PublishCommand(payload []byte) error {
	if !t.client.IsConnected() {
		return apperrors.ErrNotConnected
	}
	topic := fmt.Sprintf("device/%s/request", t.cfg.Bambu.Serial)
	token := t.client.Publish(topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("не удалось отправить команду принтеру: %w", err)
	}
	t.log.Debug("Command published", "topic", topic, "bytes", len(payload))
	return nil
}

// onConnect вызывается как при первом подключении, так и при каждом реконнекте,
// поэтому подписка оформляется здесь.
func (t *MqttTransport) onConnect(client mqtt.Client) {
	topic := fmt.Sprintf("device/%s/report", t.cfg.Bambu.Serial)
	token := client.Subscribe(topic, 0, t.onMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		t.log.Error("Failed to subscribe to report topic", "topic", topic, "error", err)
		return
	}
	t.log.Info("Subscribed to printer reports", "topic", topic)
	t.emit(models.PrinterEvent{Kind: models.EventConnected})
}

func (t *MqttTransport) onConnectionLost(_ mqtt.Client, err error) {
	reason := "unknown"
	if err != nil {
		reason = err.Error()
	}
	t.log.Warn("Connection to printer lost", "reason", reason)
	t.emit(models.PrinterEvent{Kind: models.EventDisconnected, Reason: reason})
}

func (t *MqttTransport) onMessage(_ mqtt.Client, msg mqtt.Message) {
	t.log.Trace("Raw report received", "topic", msg.Topic(), "payload", string(msg.Payload()))
	// paho переиспользует буфер сообщения, поэтому делаем копию
	payload := make([]byte, len(msg.Payload()))
	copy(payload, msg.Payload())
	t.emit(models.PrinterEvent{Kind: models.EventMessage, Payload: payload})
}

// emit не блокирует колбэки paho: при переполненном канале событие отбрасывается,
// следующий полный отчет принтера восстановит состояние.
func (t *MqttTransport) emit(ev models.PrinterEvent) {
	select {
	case t.events <- ev:
	default:
		t.log.Warn("Event channel full, dropping event", "kind", int(ev.Kind))
	}
}
