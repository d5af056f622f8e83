package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"wildfire/engine"
	"wildfire/fuzzy"
	"wildfire/wind"
)

const sampleYaml = `
kind: wildfire
def:
  neighborPolicy: weighted_stochastic
  windPolicy: signed_directional
  fuzzyVariant: T
  durations:
    dFire: 8
    dOut: 9
  environment:
    windDirection: E
    windSpeed: 15
    humidity: 30
    temperature: 22
  seed: 42
  landCoverPath: testdata/landcover.csv
  steps: 100
  ignitionSeed: 3
  nworkers: 4
  serverAddr: ":9090"
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestFromYaml(t *testing.T) {
	Convey("Given a well-formed run config file", t, func() {
		path := writeTempConfig(t, sampleYaml)

		cfg, err := FromYaml(path)
		So(err, ShouldBeNil)

		Convey("Fields decode into the typed RunConfig", func() {
			So(cfg.NeighborPolicy, ShouldEqual, "weighted_stochastic")
			So(cfg.WindPolicy, ShouldEqual, "signed_directional")
			So(cfg.FuzzyVariant, ShouldEqual, "T")
			So(cfg.Durations.DFire, ShouldEqual, 8)
			So(cfg.Durations.DOut, ShouldEqual, 9)
			So(cfg.Environment.WindDirection, ShouldEqual, "E")
			So(cfg.Environment.WindSpeed, ShouldEqual, 15.0)
			So(cfg.Seed, ShouldEqual, uint64(42))
			So(cfg.Steps, ShouldEqual, 100)
			So(cfg.NWorkers, ShouldEqual, 4)
			So(cfg.ServerAddr, ShouldEqual, ":9090")
		})

		Convey("Enumerated fields parse into their typed values", func() {
			dir, err := cfg.WindDirection()
			So(err, ShouldBeNil)
			So(dir, ShouldEqual, wind.E)

			wp, err := cfg.WindPolicyValue()
			So(err, ShouldBeNil)
			So(wp, ShouldEqual, wind.SignedDirectional)

			fv, err := cfg.FuzzyVariantValue()
			So(err, ShouldBeNil)
			So(fv, ShouldEqual, fuzzy.VariantT)

			np, err := cfg.NeighborPolicyValue()
			So(err, ShouldBeNil)
			So(np, ShouldEqual, engine.WeightedStochastic)
		})
	})

	Convey("Given a config file omitting optional fields", t, func() {
		path := writeTempConfig(t, "kind: wildfire\ndef:\n  steps: 10\n")
		cfg, err := FromYaml(path)
		So(err, ShouldBeNil)

		Convey("Defaults are applied", func() {
			So(cfg.NeighborPolicy, ShouldEqual, "simple")
			So(cfg.WindPolicy, ShouldEqual, "scaled_isotropic")
			So(cfg.FuzzyVariant, ShouldEqual, "S")
			So(cfg.Durations.DFire, ShouldEqual, engine.DefaultDFire)
			So(cfg.Durations.DOut, ShouldEqual, engine.DefaultDOut)
			So(cfg.NWorkers, ShouldEqual, 1)
			So(cfg.ServerAddr, ShouldEqual, ":8080")
			So(cfg.Environment.WindDirection, ShouldEqual, "N")
		})
	})

	Convey("Given an unknown enumerated value", t, func() {
		path := writeTempConfig(t, "kind: wildfire\ndef:\n  windPolicy: sideways\n")
		cfg, err := FromYaml(path)
		So(err, ShouldBeNil)

		Convey("Resolving it to a typed value is a configuration error", func() {
			_, err := cfg.WindPolicyValue()
			So(err, ShouldHaveSameTypeAs, &engine.ConfigError{})
		})
	})

	Convey("Given a nonexistent config path", t, func() {
		_, err := FromYaml(filepath.Join(t.TempDir(), "missing.yaml"))
		Convey("Loading it is an error", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
