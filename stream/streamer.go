package stream

import (
	"encoding/json"
	"log"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledstep/frameclock"
)

// StepMessage is the payload on the steps topic. Exactly one field is
// expected.
type StepMessage struct {
	Click *int `json:"click,omitempty"`
	Page  *int `json:"page,omitempty"`
}

// Streamer bridges MQTT and a Controller. Step messages are posted onto the
// clock goroutine and applied batches are published as Frames.
type Streamer struct {
	config     Config
	client     mqtt.Client
	clock      frameclock.Clock
	controller *Controller
}

// NewStreamer creates an instance of a Streamer and registers it as the
// controller's sink.
func NewStreamer(config Config, client mqtt.Client, clock frameclock.Clock, controller *Controller) *Streamer {
	s := new(Streamer)
	s.config = config
	s.client = client
	s.clock = clock
	s.controller = controller
	controller.SetSink(s)
	return s
}

// Subscribe listens for step messages. Call it from the client's
// on-connect handler so subscriptions survive reconnects.
func (s *Streamer) Subscribe() {
	topic := s.config.Mqtt.Topics.Steps
	log.Printf("Subscribing to %s", topic)
	token := s.client.Subscribe(topic, 0, s.handleStepMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("Subscribe to %s failed: %v", topic, err)
	}
}

func (s *Streamer) handleStepMessage(client mqtt.Client, msg mqtt.Message) {
	var m StepMessage
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		log.Printf("Dropping step message on %s: %v", msg.Topic(), err)
		return
	}
	s.dispatch(m)
}

func (s *Streamer) dispatch(m StepMessage) {
	switch {
	case m.Page != nil:
		page := *m.Page
		s.clock.Post(func() { s.controller.SetPage(page) })
	case m.Click != nil:
		click := *m.Click
		s.clock.Post(func() { s.controller.Advance(click) })
	default:
		log.Printf("Dropping empty step message")
	}
}

// Publish sends a Frame to the updates topic. It does not wait for the
// broker since it runs on the clock goroutine.
func (s *Streamer) Publish(f *Frame) {
	b, err := f.MarshalBinary()
	if err != nil {
		log.Printf("Encoding frame failed: %v", err)
		return
	}
	s.client.Publish(s.config.Mqtt.Topics.Updates, 0, false, b)
}
