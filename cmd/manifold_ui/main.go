package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/cbegin/manifold-go"
	"github.com/cbegin/manifold-go/internal/config"
	"github.com/cbegin/manifold-go/internal/logging"
	"github.com/cbegin/manifold-go/internal/profile"
	"github.com/cbegin/manifold-go/internal/scene"
	"github.com/cbegin/manifold-go/internal/trajectory"
)

const (
	minWindowW = 480
	minWindowH = 360
	framePad   = 12
)

var conditionKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}

type game struct {
	engine   *manifold.Engine
	events   <-chan manifold.Event
	renderer *scene.Renderer
	palette  scene.Palette
	view     *scene.View
	log      *zap.Logger

	selected profile.Name
	variant  trajectory.Variant
	count    int
	audioOK  bool

	dragging bool
	lastX    int
	lastY    int
	status   string
	viewW    int
	viewH    int
}

func newGame(cfg *config.Config, logger *zap.Logger) (*game, error) {
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
	view := scene.NewView()
	view.TimeStep = cfg.Render.TimeStep
	view.RotationStep = cfg.Render.RotationStep
	view.RotX = cfg.Render.InitialRotationX
	return &game{
		engine:   e,
		events:   e.Watch(),
		renderer: scene.NewRenderer(profile.Default(), palette),
		palette:  palette,
		view:     view,
		log:      logger,
		selected: cfg.Condition(),
		variant:  trajectory.ParseVariant(cfg.Session.Variant),
		count:    cfg.Render.Count,
		status:   "1-5 play/stop  space stop  v variant",
		viewW:    cfg.Render.Width,
		viewH:    cfg.Render.Height,
	}, nil
}

func (g *game) Update() error {
	g.view.Tick()
	g.pollEvents()
	g.handleKeys()
	g.handleMouse()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	f := g.view.Frame(g.selected, g.variant, g.engine.Playing())
	f.Count = g.count
	if err := g.renderer.Draw(ebitenSurface{screen}, f); err != nil {
		g.status = err.Error()
	}
	g.drawChrome(screen)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	g.viewW = max(outsideW, minWindowW)
	g.viewH = max(outsideH, minWindowH)
	return g.viewW, g.viewH
}

func (g *game) Close() { _ = g.engine.Dispose() }

func (g *game) pollEvents() {
	for {
		select {
		case ev := <-g.events:
			switch ev.Kind {
			case manifold.EventStarted:
				g.status = fmt.Sprintf("playing %s", ev.Condition)
			case manifold.EventStopped:
				g.status = fmt.Sprintf("stopped %s", ev.Condition)
			}
		default:
			return
		}
	}
}

func (g *game) handleKeys() {
	names := profile.Names()
	for i, k := range conditionKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.toggle(names[i])
			return
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.engine.StopAll()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		vs := trajectory.Variants()
		g.variant = vs[(int(g.variant)+1)%len(vs)]
	}
}

// toggle initializes audio on first use so the device opens after a user
// gesture.
func (g *game) toggle(name profile.Name) {
	g.selected = name
	if !g.audioOK {
		if err := g.engine.Init(context.Background()); err != nil {
			g.status = "audio unavailable: " + err.Error()
			return
		}
		g.audioOK = true
	}
	if _, err := g.engine.Toggle(name); err != nil {
		g.log.Warn("toggle failed", zap.Error(err))
		g.status = err.Error()
	}
}

func (g *game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.lastX, g.lastY = mx, my
		return
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = false
		return
	}
	if g.dragging {
		g.view.Drag(float64(mx-g.lastX), float64(my-g.lastY))
		g.lastX, g.lastY = mx, my
	}
}

func (g *game) drawChrome(screen *ebiten.Image) {
	playing, ok := g.engine.CurrentCondition()
	if ok && playing == g.selected {
		c := g.palette.Color(g.selected, 0.8)
		vector.StrokeRect(screen, framePad, framePad,
			float32(g.viewW-2*framePad), float32(g.viewH-2*framePad), 2, c, true)
	}
	label := fmt.Sprintf("%s  [%s]", g.selected, g.variant)
	ebitenutil.DebugPrintAt(screen, label, framePad+8, framePad+8)
	ebitenutil.DebugPrintAt(screen, g.status, framePad+8, g.viewH-framePad-24)
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
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	g, err := newGame(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()
	if cfg.Session.Autoplay {
		g.toggle(g.selected)
	}

	ebiten.SetWindowSize(cfg.Render.Width, cfg.Render.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(minWindowW, minWindowH, -1, -1)
	ebiten.SetWindowTitle("manifold")
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}
