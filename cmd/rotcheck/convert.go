package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/manifold/internal/rotations"
	"github.com/banshee-data/manifold/internal/units"
)

type convertOptions struct {
	from  string
	units string
}

func newConvertCmd() *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert v1 v2 v3 [v4]",
		Short: "Print every representation of a rotation",
		Long: `Converts a rotation given as a quaternion (x y z w), a rotation vector or
a set of Euler angles into all the others. Values may be separate arguments
or one comma-separated list.

Euler angles are read and printed in --units. They are alias rotations;
yaw-pitch-roll is given as (yaw, pitch, roll) and roll-pitch-yaw as
(roll, pitch, yaw).

Put -- before the values when the first one is negative, so it is not read
as a flag.`,
		Example: `  rotcheck convert --from rotvec 0 0 1.5707963
  rotcheck convert --from ypr --units deg 90,10,0
  rotcheck convert --from rpy -- -0.5 0.1 0`,
		Args: cobra.RangeArgs(1, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := parseCSVFloatSlice(strings.Join(args, ","))
			if err != nil {
				return err
			}
			q, err := opts.quat(vals)
			if err != nil {
				return err
			}
			printRotation(cmd.OutOrStdout(), q, opts.units)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.from, "from", "quat", "Input representation: quat, rotvec, ypr or rpy")
	cmd.Flags().StringVar(&opts.units, "units", units.Rad, "Euler angle units: "+units.GetValidUnitsString())
	return cmd
}

// parseCSVFloatSlice parses a comma-separated list of floats
func parseCSVFloatSlice(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (o *convertOptions) quat(vals []float64) (rotations.Quat, error) {
	if !units.IsValid(o.units) {
		return rotations.Quat{}, fmt.Errorf("unknown --units %q (want %s)", o.units, units.GetValidUnitsString())
	}
	want := 3
	if o.from == "quat" {
		want = 4
	}
	if len(vals) != want {
		return rotations.Quat{}, fmt.Errorf("--from %s takes %d values, got %d", o.from, want, len(vals))
	}
	v := r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}
	euler := r3.Vec{X: units.ToRadians(v.X, o.units), Y: units.ToRadians(v.Y, o.units), Z: units.ToRadians(v.Z, o.units)}

	switch o.from {
	case "quat":
		q := rotations.Quat{X: vals[0], Y: vals[1], Z: vals[2], W: vals[3]}
		if q.Norm() <= rotations.MinQuatNorm {
			return rotations.Quat{}, fmt.Errorf("quaternion %v has no direction", q)
		}
		return q.Normalize(), nil
	case "rotvec":
		return rotations.RotVecToQuat(v), nil
	case "ypr":
		return rotations.YPRToQuat(euler), nil
	case "rpy":
		return rotations.RPYToQuat(euler), nil
	default:
		return rotations.Quat{}, fmt.Errorf("unknown --from %q (want quat, rotvec, ypr or rpy)", o.from)
	}
}

func printRotation(w io.Writer, q rotations.Quat, unit string) {
	euler := func(v r3.Vec) r3.Vec {
		return r3.Vec{X: units.FromRadians(v.X, unit), Y: units.FromRadians(v.Y, unit), Z: units.FromRadians(v.Z, unit)}
	}

	fmt.Fprintf(w, "quaternion (x y z w):  %s\n", row(q.X, q.Y, q.Z, q.W))
	v := rotations.QuatToRotVec(q)
	fmt.Fprintf(w, "rotation vector:       %s\n", row(v.X, v.Y, v.Z))
	fmt.Fprintf(w, "angle:                 %s rad\n", row(r3.Norm(v)))

	R := rotations.QuatToRotMat(q)
	for i := 0; i < 3; i++ {
		label := ""
		if i == 0 {
			label = "rotation matrix:"
		}
		fmt.Fprintf(w, "%-22s %s\n", label, row(R.At(i, 0), R.At(i, 1), R.At(i, 2)))
	}

	ypr := euler(rotations.QuatToYPR(q))
	fmt.Fprintf(w, "yaw pitch roll:        %s %s\n", row(ypr.X, ypr.Y, ypr.Z), unit)
	rpy := euler(rotations.QuatToRPY(q))
	fmt.Fprintf(w, "roll pitch yaw:        %s %s\n", row(rpy.X, rpy.Y, rpy.Z), unit)
}

// row formats values to six decimals, printing rounding residue as 0.
func row(vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		if math.Abs(v) < 5e-7 {
			v = 0
		}
		parts[i] = fmt.Sprintf("%10.6f", v)
	}
	return strings.Join(parts, " ")
}
