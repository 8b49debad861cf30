package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/sync/errgroup"

	"github.com/matt-g-everett/ledstep/api"
	"github.com/matt-g-everett/ledstep/deck"
	"github.com/matt-g-everett/ledstep/frameclock"
	"github.com/matt-g-everett/ledstep/script"
	"github.com/matt-g-everett/ledstep/stream"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Clock      *frameclock.Ticker
	Controller *stream.Controller
	Streamer   *stream.Streamer
	Api        *api.Api
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	a.Streamer.Subscribe()
}

func (a *app) load(deckPath string) {
	d, err := deck.Load(deckPath)
	if err != nil {
		panic(err)
	}

	if d.Defaults.Duration > 0 {
		a.Config.Animation.DefaultDuration = d.Defaults.Duration
	}
	if d.Defaults.Easing != "" {
		a.Config.Animation.DefaultEasing = d.Defaults.Easing
	}
	defaults := stream.DefaultsFromConfig(a.Config.Animation)

	res, err := script.Run(d.Script(), defaults.Duration, defaults.Easing)
	if err != nil {
		log.Printf("Deck %s stopped early: %v", deckPath, err)
	}
	log.Printf("Loaded %d steps for %d targets (%d dropped)", res.Steps, len(res.Targets), res.Dropped)

	a.Clock = frameclock.NewTicker(time.Duration(a.Config.Animation.FrameInterval * float64(time.Millisecond)))
	a.Controller = stream.NewController(a.Clock, res.Targets, res.Steps, defaults)
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Clock.Run(ctx)
	})
	g.Go(func() error {
		return a.Api.Serve(ctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	deckPath := flag.String("deck", "", "YAML deck file, overrides the config.")
	flag.Parse()

	// Read the config
	a := newApp()
	config, err := stream.ReadConfig(*configPath)
	if err != nil {
		panic(err)
	}
	a.Config = config
	if *deckPath != "" {
		a.Config.Deck = *deckPath
	}
	log.Printf("Config: %+v", a.Config)

	a.load(a.Config.Deck)

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)
	a.Streamer = stream.NewStreamer(a.Config, a.Client, a.Clock, a.Controller)
	a.Api = api.NewApi(a.Config.API.Listen, a.Clock, a.Controller)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		log.Fatal(err)
	}
}
