//go:build viewer
// +build viewer

// 指示: miu200521358
package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/miu200521358/mu_ikrig/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_ikrig/pkg/adapter/mpresenter/snapshot"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/physics"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/i18n"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

const (
	windowWidth  = 960
	windowHeight = 540
	ticksPerSec  = 60
)

var (
	boneColor      = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	jointColor     = color.RGBA{R: 0x60, G: 0xA0, B: 0xFF, A: 0xFF}
	targetColor    = color.RGBA{R: 0xFF, G: 0x60, B: 0x60, A: 0xFF}
	reachedColor   = color.RGBA{R: 0x60, G: 0xFF, B: 0x80, A: 0xFF}
	bodyColor      = color.RGBA{R: 0xA0, G: 0xA0, B: 0x40, A: 0xFF}
	kinematicColor = color.RGBA{R: 0xFF, G: 0xA0, B: 0x40, A: 0xFF}
)

// Options はビューアの起動設定を表す。
type Options struct {
	Title      string
	Camera     *mmath.Camera
	Translator i18n.II18n
}

// Run はウィンドウを開き、1ティックごとに1フレームを進める。ウィンドウを閉じるまで戻らない。
// usecase の Renderer には recorder、Input には pointer を渡しておくこと。
func Run(usecase *minteractor.IkRigUsecase, recorder *snapshot.RecordingRenderer, pointer *PointerInput, options Options) error {
	game := &hostGame{
		usecase:  usecase,
		recorder: recorder,
		pointer:  pointer,
		options:  options,
	}
	ebiten.SetWindowTitle(options.Title)
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetTPS(ticksPerSec)
	return ebiten.RunGame(game)
}

type hostGame struct {
	usecase  *minteractor.IkRigUsecase
	recorder *snapshot.RecordingRenderer
	pointer  *PointerInput
	options  Options
	last     minteractor.FrameReport
}

func (g *hostGame) Update() error {
	x, y := ebiten.CursorPosition()
	g.pointer.Set(x, y, windowWidth, windowHeight, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	g.last = g.usecase.Frame()
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	scene, ok := g.recorder.Last()
	if ok {
		g.drawBodies(screen, scene.Bodies)
		g.drawBones(screen, scene)
		g.drawTargets(screen, scene)
	}
	ebitenutil.DebugPrint(screen, g.hud())
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

func (g *hostGame) drawBones(screen *ebiten.Image, scene minteractor.RenderScene) {
	for _, bone := range scene.Bones {
		x, y, ok := ToScreen(g.options.Camera, bone.Position, windowWidth, windowHeight)
		if !ok {
			continue
		}
		if bone.Parent >= 0 && bone.Parent < len(scene.Bones) {
			px, py, parentOk := ToScreen(g.options.Camera, scene.Bones[bone.Parent].Position, windowWidth, windowHeight)
			if parentOk {
				vector.StrokeLine(screen, px, py, x, y, 2, boneColor, true)
			}
		}
		vector.DrawFilledCircle(screen, x, y, 3, jointColor, true)
	}
}

func (g *hostGame) drawTargets(screen *ebiten.Image, scene minteractor.RenderScene) {
	for _, target := range scene.Targets {
		x, y, ok := ToScreen(g.options.Camera, target.Position, windowWidth, windowHeight)
		if !ok {
			continue
		}
		clr := targetColor
		if target.Converged {
			clr = reachedColor
		}
		vector.StrokeCircle(screen, x, y, 6, 2, clr, true)
	}
}

func (g *hostGame) drawBodies(screen *ebiten.Image, bodies []moutput.RenderBody) {
	for _, body := range bodies {
		x, y, ok := ToScreen(g.options.Camera, body.Position, windowWidth, windowHeight)
		if !ok {
			continue
		}
		clr := bodyColor
		if body.Kind == physics.BODY_KIND_KINEMATIC {
			clr = kinematicColor
		}
		switch body.Shape.Type {
		case physics.SHAPE_SPHERE:
			rx, _, edgeOk := ToScreen(g.options.Camera, body.Position.Added(mmath.NewVec3(body.Shape.Radius, 0, 0)), windowWidth, windowHeight)
			radius := float32(4)
			if edgeOk && rx > x {
				radius = rx - x
			}
			vector.StrokeCircle(screen, x, y, radius, 1, clr, true)
		case physics.SHAPE_BOX:
			lower := body.Position.Subed(body.Shape.HalfExtents)
			upper := body.Position.Added(body.Shape.HalfExtents)
			x0, y0, ok0 := ToScreen(g.options.Camera, mmath.NewVec3(lower.X, upper.Y, body.Position.Z), windowWidth, windowHeight)
			x1, y1, ok1 := ToScreen(g.options.Camera, mmath.NewVec3(upper.X, lower.Y, body.Position.Z), windowWidth, windowHeight)
			if ok0 && ok1 {
				vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, clr, true)
			}
		default:
			vector.StrokeLine(screen, 0, y, windowWidth, y, 1, clr, true)
		}
	}
}

func (g *hostGame) hud() string {
	translator := g.options.Translator
	text := i18n.TranslateOrMark(translator, messages.HudPhase, string(g.usecase.Phase()))
	if err := g.usecase.SetupError(); err != nil {
		text += "\n" + i18n.TranslateOrMark(translator, messages.MessageSetupFailed) + ": " + err.Error()
	}
	text += "\n" + i18n.TranslateOrMark(translator, messages.LogFrameSummary,
		g.last.Frame, g.last.SolvedChainCount(), g.last.ConvergedChainCount())
	for _, chain := range g.last.Chains {
		if chain.Active && chain.Result.Converged {
			text += fmt.Sprintf("\n%s: %s", chain.Name, i18n.TranslateOrMark(translator, messages.HudTargetReached))
		}
	}
	return text
}
