package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cbegin/manifold-go"
	"github.com/cbegin/manifold-go/internal/config"
	"github.com/cbegin/manifold-go/internal/logging"
	"github.com/cbegin/manifold-go/internal/profile"
	"github.com/cbegin/manifold-go/internal/scene"
	"github.com/cbegin/manifold-go/internal/termview"
	"github.com/cbegin/manifold-go/internal/trajectory"
)

const (
	frameRate = 60
	// keyRotation is the drag delta, in pixels, one arrow key press applies.
	keyRotation = 20
)

type app struct {
	screen   tcell.Screen
	canvas   *termview.Canvas
	engine   *manifold.Engine
	renderer *scene.Renderer
	view     *scene.View
	ease     *rotationEase
	log      *zap.Logger

	selected profile.Name
	variant  trajectory.Variant
	count    int
	audioOK  bool
	status   string

	dragging     bool
	lastX, lastY int
}

func newApp(screen tcell.Screen, cfg *config.Config, logger *zap.Logger) (*app, error) {
	palette, err := scene.NewPalette(cfg.Palette)
	if err != nil {
		return nil, err
	}
	opts := []manifold.Option{
		manifold.WithSampleRate(cfg.Audio.SampleRate),
		manifold.WithBackend(cfg.Audio.Backend),
		manifold.WithMasterVolume(cfg.Audio.MasterVolume),
		manifold.WithLogger(logger),
	}
	if cfg.Audio.Seed != 0 {
		opts = append(opts, manifold.WithSeed(cfg.Audio.Seed))
	}
	e, err := manifold.New(opts...)
	if err != nil {
		return nil, err
	}
	w, h := screen.Size()
	view := scene.NewView()
	view.TimeStep = cfg.Render.TimeStep
	view.RotationStep = cfg.Render.RotationStep
	view.RotX = cfg.Render.InitialRotationX
	return &app{
		screen:   screen,
		canvas:   termview.NewCanvas(w, h),
		engine:   e,
		renderer: scene.NewRenderer(profile.Default(), palette),
		view:     view,
		ease:     newRotationEase(frameRate),
		log:      logger,
		selected: cfg.Condition(),
		variant:  trajectory.ParseVariant(cfg.Session.Variant),
		count:    cfg.Render.Count,
		status:   "1-5 play/stop  space stop  v variant  arrows rotate  q quit",
	}, nil
}

func (a *app) run() {
	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	eventCh := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(eventCh)
				return
			}
			eventCh <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventCh:
			if !ok || !a.handle(ev) {
				return
			}
		case <-ticker.C:
			a.view.Tick()
			a.view.Drag(a.ease.Step())
			a.draw()
		}
	}
}

func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			a.ease.Nudge(-keyRotation, 0)
		case tcell.KeyRight:
			a.ease.Nudge(keyRotation, 0)
		case tcell.KeyUp:
			a.ease.Nudge(0, -keyRotation)
		case tcell.KeyDown:
			a.ease.Nudge(0, keyRotation)
		case tcell.KeyRune:
			return a.handleRune(ev.Rune())
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		y *= 2
		if ev.Buttons()&tcell.Button1 == 0 {
			a.dragging = false
			break
		}
		if a.dragging {
			a.view.Drag(float64(x-a.lastX), float64(y-a.lastY))
		}
		a.dragging = true
		a.lastX, a.lastY = x, y
	case *tcell.EventResize:
		a.screen.Sync()
		w, h := a.screen.Size()
		a.canvas.Resize(w, h)
	}
	return true
}

func (a *app) handleRune(r rune) bool {
	switch {
	case r == 'q':
		return false
	case r >= '1' && r <= '5':
		a.toggle(profile.Names()[r-'1'])
	case r == ' ':
		a.engine.StopAll()
		a.status = "stopped"
	case r == 'v':
		vs := trajectory.Variants()
		a.variant = vs[(int(a.variant)+1)%len(vs)]
	}
	return true
}

func (a *app) toggle(name profile.Name) {
	a.selected = name
	if !a.audioOK {
		if err := a.engine.Init(context.Background()); err != nil {
			a.status = "audio unavailable: " + err.Error()
			return
		}
		a.audioOK = true
	}
	on, err := a.engine.Toggle(name)
	if err != nil {
		a.log.Warn("toggle failed", zap.Error(err))
		a.status = err.Error()
		return
	}
	if on {
		a.status = fmt.Sprintf("playing %s", name)
	} else {
		a.status = fmt.Sprintf("stopped %s", name)
	}
}

func (a *app) draw() {
	f := a.view.Frame(a.selected, a.variant, a.engine.Playing())
	f.Count = a.count
	if err := a.renderer.Draw(a.canvas, f); err != nil {
		a.status = err.Error()
	}
	a.canvas.Flush(a.screen)

	label := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	if cur, ok := a.engine.CurrentCondition(); ok && cur == a.selected {
		label = label.Bold(true)
	}
	a.printAt(1, 0, fmt.Sprintf(" %s [%s] ", a.selected, a.variant), label)
	_, h := a.screen.Size()
	a.printAt(1, h-1, " "+a.status+" ", tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack))
	a.screen.Show()
}

func (a *app) printAt(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	logger := logging.NewQuiet()
	defer logger.Sync()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	screen.EnableMouse()

	a, err := newApp(screen, cfg, logger)
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}
	if cfg.Session.Autoplay {
		a.toggle(a.selected)
	}
	a.run()
	screen.Fini()
	if err := a.engine.Dispose(); err != nil {
		log.Print(err)
	}
}
