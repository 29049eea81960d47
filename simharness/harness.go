// Package simharness is the in-process simulator-side collaborator: it
// replays a recorded flight log (semicolon-separated gyro/accel/mag
// samples) through the engine one tick at a time. It runs on the
// caller's goroutine and does not call the engine's simulator-only
// setters.
package simharness

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tracktum/ahrs-engine/engine"
)

// Sample is one recorded tick's worth of sensor input.
type Sample struct {
	TimeS    float64
	AccelG   [3]float64
	GyroDegS [3]float64
	MagUT    [3]float64
}

// LoadCSV reads a semicolon-separated flight log laid out as
// time;ax;ay;az;gx;gy;gz;mx;my;mz, skipping the header line.
func LoadCSV(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open flight log %q", path)
	}
	defer f.Close()

	var samples []Sample
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue // header
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) != 10 {
			return nil, errors.Errorf("flight log %q line %d: expected 10 fields, got %d", path, lineNo, len(fields))
		}
		vals := make([]float64, 10)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "flight log %q line %d field %d", path, lineNo, i)
			}
			vals[i] = v
		}
		samples = append(samples, Sample{
			TimeS:    vals[0],
			AccelG:   [3]float64{vals[1], vals[2], vals[3]},
			GyroDegS: [3]float64{vals[4], vals[5], vals[6]},
			MagUT:    [3]float64{vals[7], vals[8], vals[9]},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "scan flight log %q", path)
	}
	return samples, nil
}

// ReplaySensors adapts a single mutable Sample into the engine's
// Sensors capability interface, standing in for the sensor driver's
// averaging/calibration layer.
type ReplaySensors struct {
	Sample Sample
}

func (r *ReplaySensors) GyroAverageDegS() [3]float64       { return r.Sample.GyroDegS }
func (r *ReplaySensors) AccAverageRaw() [3]float64         { return r.Sample.AccelG }
func (r *ReplaySensors) AccOneGReciprocal() float64        { return 1.0 }
func (r *ReplaySensors) AccUpdatedAtLeastOnce() bool       { return true }
func (r *ReplaySensors) HasAccelerometer() bool            { return true }
func (r *ReplaySensors) MagnetometerVectorRaw() [3]float64 { return r.Sample.MagUT }
func (r *ReplaySensors) HaveCompass() bool                 { return true }
func (r *ReplaySensors) CompassHealthy() bool              { return true }

// StaticGPS is a GPS fake that never reports a usable fix, for flight
// logs that carry no GPS track.
type StaticGPS struct{}

func (StaticGPS) HaveGPS() bool                { return false }
func (StaticGPS) Fix() bool                    { return false }
func (StaticGPS) NumSatellites() int           { return 0 }
func (StaticGPS) GroundSpeedCmS() float64      { return 0 }
func (StaticGPS) GroundCourseDecideg() float64 { return 0 }
func (StaticGPS) GPSRescueDisableMag() bool    { return false }

// StaticModes reports angle mode with nothing else active, matching a
// stabilized-flight replay.
type StaticModes struct{}

func (StaticModes) AngleMode() bool      { return true }
func (StaticModes) HorizonMode() bool    { return false }
func (StaticModes) SetLynchMode() bool   { return false }
func (StaticModes) LynchTranslate() bool { return false }
func (StaticModes) HeadFree() bool       { return false }

// AlwaysArmed reports armed unconditionally.
type AlwaysArmed struct{}

func (AlwaysArmed) Armed() bool { return true }

// NeutralSticks reports zero deflection on every axis.
type NeutralSticks struct{}

func (NeutralSticks) Deflection(engine.Axis) float64 { return 0 }

// Harness drives an Engine through a recorded sample sequence, logging
// progress through an injected zerolog.Logger. Logging stays at this
// boundary; the tick itself never logs or allocates.
type Harness struct {
	Engine  *engine.Engine
	Sensors *ReplaySensors
	Log     zerolog.Logger
}

// RunReplay feeds samples to the engine one tick per sample, deriving
// microsecond timestamps from each sample's TimeS field. The final
// attitude is read back from the engine (see DescribeFinal).
func (h *Harness) RunReplay(samples []Sample) {
	for i, s := range samples {
		h.Sensors.Sample = s
		nowUs := int64(s.TimeS * 1e6)
		h.Engine.Tick(nowUs)
		if i%1000 == 0 {
			roll, pitch, yaw := h.Engine.GetAttitude()
			h.Log.Debug().
				Int("sample", i).
				Float64("roll_decideg", roll).
				Float64("pitch_decideg", pitch).
				Float64("yaw_decideg", yaw).
				Msg("replay tick")
		}
	}
}

// DescribeFinal renders the engine's final orientation for the CLI.
func (h *Harness) DescribeFinal() string {
	roll, pitch, yaw := h.Engine.GetAttitude()
	q := h.Engine.GetQuaternion()
	return fmt.Sprintf(
		"q=(%.4f, %.4f, %.4f, %.4f) roll=%.1fdeg pitch=%.1fdeg yaw=%.1fdeg",
		q.W, q.X, q.Y, q.Z, roll/10, pitch/10, yaw/10,
	)
}
