// 指示: miu200521358
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miu200521358/mu_ikrig/pkg/adapter/io_model/rig"
)

var sampleRigPath = filepath.Join("..", "pkg", "adapter", "io_model", "rig", "testdata", "arm.yaml")

func TestParseOptionsWithFlags(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	opts, err := parseOptions([]string{"-rig", "arm.yaml", "-config", "app.yaml", "-frames", "10"}, errBuf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.rigPath != "arm.yaml" {
		t.Fatalf("rigPath mismatch: %s", opts.rigPath)
	}
	if opts.configPath != "app.yaml" {
		t.Fatalf("configPath mismatch: %s", opts.configPath)
	}
	if opts.frames != 10 || opts.viewer {
		t.Fatalf("frames/viewer mismatch: %+v", opts)
	}
}

func TestParseOptionsWithPositionals(t *testing.T) {
	opts, err := parseOptions([]string{"arm.yaml"}, bytes.NewBuffer(nil))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.rigPath != "arm.yaml" {
		t.Fatalf("rigPath mismatch: %s", opts.rigPath)
	}
	if opts.frames != defaultFrames {
		t.Fatalf("frames mismatch: got=%d want=%d", opts.frames, defaultFrames)
	}
}

func TestParseOptionsRequireRig(t *testing.T) {
	_, err := parseOptions([]string{}, bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "-rig") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseOptionsRejectNonPositiveFrames(t *testing.T) {
	_, err := parseOptions([]string{"-rig", "arm.yaml", "-frames", "0"}, bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestOrbitPointerStaysInsideScreen(t *testing.T) {
	pointer := newOrbitPointer(8)
	if pointer.Pointer().Active {
		t.Fatalf("pointer should be inactive before advance")
	}
	for i := 0; i < 16; i++ {
		pointer.advance()
		state := pointer.Pointer()
		if !state.Active {
			t.Fatalf("pointer should be active")
		}
		if state.X < -1 || state.X > 1 || state.Y < -1 || state.Y > 1 {
			t.Fatalf("pointer out of range: %+v", state)
		}
	}
}

func TestRunHeadlessSolvesEveryFrame(t *testing.T) {
	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	if err := run([]string{"-rig", sampleRigPath, "-frames", "30"}, outBuf, errBuf); err != nil {
		t.Fatalf("run failed: %v\n%s", err, errBuf.String())
	}
	output := outBuf.String()
	if !strings.Contains(output, "リグ準備段階: ready") {
		t.Fatalf("ready progress not printed: %s", output)
	}
	if !strings.Contains(output, "フレーム集計: フレーム=30 解決=30") {
		t.Fatalf("frame summary mismatch: %s", output)
	}
}

func TestRunUsesConfigLanguage(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("language: en\nfixedTimestep: 0.02\n"), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	outBuf := bytes.NewBuffer(nil)
	if err := run([]string{"-rig", sampleRigPath, "-config", configPath, "-frames", "5"}, outBuf, bytes.NewBuffer(nil)); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(outBuf.String(), "Frame summary: frames=5") {
		t.Fatalf("english summary expected: %s", outBuf.String())
	}
}

func TestRunRejectsBrokenConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("fixedTimestep: -1\n"), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	err := run([]string{"-rig", sampleRigPath, "-config", configPath}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "設定ファイルの読み込みに失敗しました") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunContinuesFramesWhenSetupFails(t *testing.T) {
	rigPath := filepath.Join(t.TempDir(), "no_mesh.yaml")
	if err := os.WriteFile(rigPath, []byte("bones:\n  - name: root\n"), 0o644); err != nil {
		t.Fatalf("write rig failed: %v", err)
	}
	outBuf := bytes.NewBuffer(nil)
	err := run([]string{"-rig", rigPath, "-frames", "3"}, outBuf, bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected setup error")
	}
	output := outBuf.String()
	if !strings.Contains(output, "リグ準備段階: failed") {
		t.Fatalf("failed progress not printed: %s", output)
	}
	if !strings.Contains(output, "フレーム集計: フレーム=3 解決=0") {
		t.Fatalf("frames should continue without IK: %s", output)
	}
}

func TestRunContinuesFramesWhenLoadFails(t *testing.T) {
	rigPath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(rigPath, []byte("bones: [\n"), 0o644); err != nil {
		t.Fatalf("write rig failed: %v", err)
	}
	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	err := run([]string{"-rig", rigPath, "-frames", "3"}, outBuf, errBuf)
	if err == nil {
		t.Fatalf("expected load error")
	}
	if !strings.Contains(err.Error(), "読み込みに失敗しました") {
		t.Fatalf("unexpected error: %v", err)
	}
	output := outBuf.String()
	if !strings.Contains(output, "リグ準備段階: failed") {
		t.Fatalf("failed progress not printed: %s", output)
	}
	if !strings.Contains(output, "フレーム集計: フレーム=3 解決=0") {
		t.Fatalf("frames should continue without IK: %s", output)
	}
	if !strings.Contains(errBuf.String(), "リグ読み込みに失敗しました") {
		t.Fatalf("load failure should be logged: %s", errBuf.String())
	}
}

func TestRunRejectsUnsupportedExtension(t *testing.T) {
	err := run([]string{"-rig", "arm.json"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !rig.NewRigRepository().CanLoad(sampleRigPath) {
		t.Fatalf("sample rig should be loadable")
	}
}
