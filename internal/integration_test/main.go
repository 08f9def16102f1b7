// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/miu200521358/mu_ikrig/pkg/adapter/io_model/rig"
	"github.com/miu200521358/mu_ikrig/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_ikrig/pkg/domain/ik"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
	domainrig "github.com/miu200521358/mu_ikrig/pkg/domain/rig"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/i18n"
)

// targetRigPaths はリポジトリルートからの相対パスで並べたスイープ対象リグ。
var targetRigPaths = []string{
	"pkg/adapter/io_model/rig/testdata/arm.yaml",
}

// sweepConfig はスイープの実行設定を表す。
type sweepConfig struct {
	Grid     int
	Scale    float64
	FailFast bool
	Lang     string
}

// sweepResult は1チェーン分のスイープ結果を表す。
type sweepResult struct {
	RigPath     string
	Chain       string
	Count       int
	Converged   int
	Unreachable int
	Duration    time.Duration
	Err         error
}

// main はリグのIKチェーンへ格子状の目標を与えて収束率を集計する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決してスイープを実行し、終了コードを返す。
func run() int {
	config, err := parseSweepConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	root, err := resolveRepositoryRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "リポジトリ位置の解決に失敗しました: %v\n", err)
		return 2
	}
	translator, err := i18n.NewI18n(config.Lang, messages.Translations())
	if err != nil {
		fmt.Fprintf(os.Stderr, "翻訳の初期化に失敗しました: %v\n", err)
		return 2
	}

	repository := rig.NewRigRepository()
	results := make([]sweepResult, 0)
	for i, rawPath := range targetRigPaths {
		path := filepath.Join(root, filepath.FromSlash(rawPath))
		fmt.Printf("[%d/%d] スイープ開始: rig=%s\n", i+1, len(targetRigPaths), rawPath)
		asset, err := repository.Load(path)
		if err != nil {
			results = append(results, sweepResult{RigPath: rawPath, Err: err})
			fmt.Printf("[%d/%d] 読み込み失敗: rig=%s reason=%v\n", i+1, len(targetRigPaths), rawPath, err)
			if config.FailFast {
				break
			}
			continue
		}
		for _, spec := range asset.Chains {
			result := sweepChain(config, asset, spec)
			result.RigPath = rawPath
			results = append(results, result)
			if result.Err != nil {
				fmt.Printf("  chain=%s 失敗: %v\n", spec.Name, result.Err)
				if config.FailFast {
					break
				}
				continue
			}
			fmt.Printf("  chain=%s %s elapsed=%s\n", spec.Name,
				i18n.TranslateOrMark(translator, messages.LogSweepSummary, result.Count, result.Converged, result.Unreachable),
				result.Duration.Round(time.Millisecond))
		}
	}

	failed := printSweepSummary(translator, results)
	if failed > 0 {
		return 1
	}
	return 0
}

// parseSweepConfig はコマンドライン引数から実行設定を構築する。
func parseSweepConfig() (sweepConfig, error) {
	grid := flag.Int("grid", 9, "1軸あたりの目標格子数")
	scale := flag.Float64("scale", 1.25, "チェーン全長に対する格子半幅の倍率")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	lang := flag.String("lang", "ja", "集計表示の言語")
	flag.Parse()

	if *grid < 2 {
		return sweepConfig{}, fmt.Errorf("grid は2以上が必要です: %d", *grid)
	}
	if *scale <= 0 {
		return sweepConfig{}, fmt.Errorf("scale は正の値が必要です: %f", *scale)
	}
	return sweepConfig{Grid: *grid, Scale: *scale, FailFast: *failFast, Lang: strings.TrimSpace(*lang)}, nil
}

// resolveRepositoryRoot はスクリプト配置ディレクトリからリポジトリルートを返す。
func resolveRepositoryRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	return filepath.Join(filepath.Dir(currentFilePath), "..", ".."), nil
}

// sweepChain はチェーンのルートを中心とした立方格子の各点を目標として解く。
// 格子のx断面ごとにチェーンを1本作り、断面単位で並列に解く。
func sweepChain(config sweepConfig, asset *domainrig.RigAsset, spec domainrig.ChainSpec) sweepResult {
	result := sweepResult{Chain: spec.Name}
	skeleton := asset.Model.Skeleton
	def, err := spec.ResolveChainDef(skeleton)
	if err != nil {
		result.Err = err
		return result
	}

	// NewIkChain はスケルトンのワールド姿勢を更新するため、生成は逐次で行う
	slices := make([]*model.IkChain, config.Grid)
	for i := range slices {
		chain, err := model.NewIkChain(skeleton, def)
		if err != nil {
			result.Err = err
			return result
		}
		slices[i] = chain
	}
	bindPositions := slices[0].Positions()
	center := slices[0].Anchor
	halfWidth := slices[0].TotalLength() * config.Scale

	var converged, unreachable int64
	solver := ik.NewSolver(nil)
	startedAt := time.Now()
	group := errgroup.Group{}
	group.SetLimit(runtime.GOMAXPROCS(0))
	for xi, chain := range slices {
		group.Go(func() error {
			x := gridCoordinate(xi, config.Grid, halfWidth)
			for yi := 0; yi < config.Grid; yi++ {
				for zi := 0; zi < config.Grid; zi++ {
					target := center.Added(mmath.NewVec3(
						x,
						gridCoordinate(yi, config.Grid, halfWidth),
						gridCoordinate(zi, config.Grid, halfWidth),
					))
					chain.SetPositions(bindPositions)
					chain.Target.Set(target)
					solved := solver.Solve(chain)
					if !solved.Reachable {
						atomic.AddInt64(&unreachable, 1)
					}
					if solved.Converged {
						atomic.AddInt64(&converged, 1)
					}
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		result.Err = err
		return result
	}

	result.Count = config.Grid * config.Grid * config.Grid
	result.Converged = int(converged)
	result.Unreachable = int(unreachable)
	result.Duration = time.Since(startedAt)
	return result
}

// gridCoordinate は格子番号を -halfWidth..halfWidth の座標へ変換する。
func gridCoordinate(index, count int, halfWidth float64) float64 {
	return -halfWidth + 2*halfWidth*float64(index)/float64(count-1)
}

// printSweepSummary はスイープ結果の集計を表示し、失敗件数を返す。
func printSweepSummary(translator i18n.II18n, results []sweepResult) int {
	count, converged, unreachable, failed := 0, 0, 0, 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			continue
		}
		count += result.Count
		converged += result.Converged
		unreachable += result.Unreachable
	}
	fmt.Printf("%s failed=%d\n", i18n.TranslateOrMark(translator, messages.LogSweepSummary, count, converged, unreachable), failed)
	return failed
}
