// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/miu200521358/mu_ikrig/pkg/adapter/io_model/rig"
	"github.com/miu200521358/mu_ikrig/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_ikrig/pkg/adapter/mpresenter/snapshot"
	"github.com/miu200521358/mu_ikrig/pkg/adapter/physics/b2world"
	"github.com/miu200521358/mu_ikrig/pkg/infra/base/mlogging"
	"github.com/miu200521358/mu_ikrig/pkg/infra/config"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/i18n"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/logging"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

const (
	appName       = "mu_ikrig"
	defaultFrames = 120
	// orbitPeriod は模擬ポインタが1周するフレーム数。
	orbitPeriod = 90
)

// options はCLI引数を保持する。
type options struct {
	rigPath    string
	configPath string
	frames     int
	viewer     bool
}

// app は1回の実行で組み立てた依存を保持する。
type app struct {
	frame      minteractor.FrameOptions
	logger     *mlogging.Logger
	translator i18n.II18n
	world      *b2world.World
	repository *rig.RigRepository
	out        io.Writer
}

// main はリグを読み込み、フレームを実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}
	a, err := newApp(opts, out, errOut)
	if err != nil {
		return err
	}
	if !a.repository.CanLoad(opts.rigPath) {
		return fmt.Errorf("入力形式が未対応です: %s", opts.rigPath)
	}
	if opts.viewer {
		return runViewer(a, opts)
	}
	return runHeadless(a, opts)
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	translator := newTranslator(config.DefaultLanguage)
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s: %s\n", i18n.TranslateOrMark(translator, messages.HelpUsageTitle), i18n.TranslateOrMark(translator, messages.HelpUsage))
		fs.PrintDefaults()
	}

	rigPath := fs.String("rig", "", i18n.TranslateOrMark(translator, messages.LabelRigPathTip))
	configPath := fs.String("config", "", i18n.TranslateOrMark(translator, messages.LabelConfigTip))
	frames := fs.Int("frames", defaultFrames, i18n.TranslateOrMark(translator, messages.LabelFramesTip))
	viewer := fs.Bool("viewer", false, i18n.TranslateOrMark(translator, messages.LabelViewerTip))
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *rigPath == "" && fs.NArg() > 0 {
		*rigPath = fs.Arg(0)
	}
	if strings.TrimSpace(*rigPath) == "" {
		return options{}, errors.New(i18n.TranslateOrMark(translator, messages.MessageRigRequired) + " (-rig)")
	}
	if *frames <= 0 {
		return options{}, fmt.Errorf("フレーム数は正の値が必要です: %d", *frames)
	}
	return options{rigPath: *rigPath, configPath: *configPath, frames: *frames, viewer: *viewer}, nil
}

// newApp は設定を読み込み、ロガー・翻訳・物理ワールド・リポジトリを組み立てる。
func newApp(opts options, out io.Writer, errOut io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		translator := newTranslator(config.DefaultLanguage)
		return nil, fmt.Errorf("%s: %w", i18n.TranslateOrMark(translator, messages.MessageConfigLoadFailed), err)
	}
	frameOptions, err := cfg.FrameOptions()
	if err != nil {
		return nil, err
	}
	logger := mlogging.NewLogger(errOut)
	if err := cfg.ApplyLogging(logger); err != nil {
		return nil, err
	}
	logging.SetDefaultLogger(logger)

	return &app{
		frame:      frameOptions,
		logger:     logger,
		translator: newTranslator(cfg.Language),
		world:      b2world.NewWorld(cfg.Gravity(), cfg.Physics.VelocityIterations, cfg.Physics.PositionIterations),
		repository: rig.NewRigRepository(),
		out:        out,
	}, nil
}

// newTranslator は表示言語の翻訳を生成する。翻訳がない言語は既定言語へ戻す。
func newTranslator(lang string) i18n.II18n {
	translator, err := i18n.NewI18n(lang, messages.Translations())
	if err == nil && translator.Has(messages.HelpUsage) {
		return translator
	}
	fallback, err := i18n.NewI18n(config.DefaultLanguage, messages.Translations())
	if err != nil {
		return nil
	}
	return fallback
}

// runHeadless はリグを同期で読み込み、模擬ポインタで指定フレーム数を実行する。
func runHeadless(a *app, opts options) error {
	recorder := snapshot.NewRecordingRenderer(snapshot.DefaultCapacity)
	pointer := newOrbitPointer(orbitPeriod)
	usecase, err := minteractor.NewIkRigUsecase(minteractor.IkRigUsecaseDeps{
		World:            a.world,
		Loader:           a.repository,
		Input:            pointer,
		Renderer:         recorder,
		ProgressReporter: &progressPrinter{out: a.out, translator: a.translator},
		Logger:           a.logger,
	}, a.frame)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "[%s] %s: %s\n", appName, i18n.TranslateOrMark(a.translator, messages.LabelRigPath), opts.rigPath)
	// 読み込みや結合に失敗してもフレームはIKなしで最後まで回す
	failedMessage := messages.MessageSetupFailed
	asset, setupErr := usecase.LoadRig(nil, opts.rigPath)
	if setupErr != nil {
		failedMessage = messages.MessageLoadFailed
	} else {
		setupErr = usecase.Bind(asset)
	}
	if setupErr != nil {
		fmt.Fprintf(a.out, "[%s] %s\n", appName, i18n.TranslateOrMark(a.translator, failedMessage))
	}

	solved, converged := 0, 0
	for i := 0; i < opts.frames; i++ {
		pointer.advance()
		report := usecase.Frame()
		solved += report.SolvedChainCount()
		converged += report.ConvergedChainCount()
	}
	fmt.Fprintf(a.out, "[%s] %s\n", appName, i18n.TranslateOrMark(a.translator, messages.LogFrameSummary,
		usecase.FrameCount(), solved, converged))

	if setupErr != nil {
		return fmt.Errorf("%s: %w", i18n.TranslateOrMark(a.translator, failedMessage), setupErr)
	}
	return nil
}

// progressPrinter はリグ準備の進捗を標準出力へ書く。
type progressPrinter struct {
	out        io.Writer
	translator i18n.II18n
}

// ReportSetupProgress はリグ準備の進捗を1行で出力する。
func (p *progressPrinter) ReportSetupProgress(event minteractor.SetupProgressEvent) {
	fmt.Fprintf(p.out, "[%s] %s\n", appName, i18n.TranslateOrMark(p.translator, messages.LogSetupPhase, string(event.Type)))
}

// orbitPointer は画面中央付近を円運動する模擬ポインタを表す。
type orbitPointer struct {
	period int
	tick   int
	state  moutput.PointerState
}

func newOrbitPointer(period int) *orbitPointer {
	if period <= 0 {
		period = orbitPeriod
	}
	return &orbitPointer{period: period}
}

// advance はポインタを1フレーム分進める。
func (p *orbitPointer) advance() {
	angle := 2 * math.Pi * float64(p.tick) / float64(p.period)
	p.state = moutput.PointerState{
		X:      0.2 + 0.3*math.Cos(angle),
		Y:      0.1 + 0.3*math.Sin(angle),
		Active: true,
	}
	p.tick++
}

// Pointer は現在の模擬ポインタを返す。
func (p *orbitPointer) Pointer() moutput.PointerState {
	return p.state
}
