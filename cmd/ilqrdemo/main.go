// Command ilqrdemo runs the solver against one of the package's two test
// models and saves a convergence plot, the same "parse os.Args, panic on
// a bad argument, fmt.Printf a progress line per iteration" shape as the
// repo's original IntegratorStability.go/OscillatorStability.go.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hammal/ilqr/cost"
	"github.com/hammal/ilqr/diagnostics"
	"github.com/hammal/ilqr/dynamics"
	"github.com/hammal/ilqr/solver"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"
)

func main() {
	if len(os.Args) < 2 {
		panic("usage: ilqrdemo <double-integrator|pendulum>")
	}

	var model dynamics.Model
	var x0 *mat.VecDense
	switch os.Args[1] {
	case "double-integrator":
		model = dynamics.NewDoubleIntegrator()
		x0 = mat.NewVecDense(2, []float64{1, 0})
	case "pendulum":
		model = dynamics.NewPendulum(1, 1, 0.1)
		x0 = mat.NewVecDense(2, []float64{3.0, 0})
	default:
		panic("usage: ilqrdemo <double-integrator|pendulum>")
	}

	iterations := 20
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			panic(err)
		}
		iterations = n
	}

	n, m := model.StateDim(), model.ControlDim()
	Q := mat.NewDense(n, n, nil)
	R := mat.NewDense(m, m, nil)
	Qf := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		Q.Set(i, i, 1)
		Qf.Set(i, i, 50)
	}
	for i := 0; i < m; i++ {
		R.Set(i, i, 0.05)
	}
	c := cost.NewQuadratic(Q, R, Qf)

	ts := make([]float64, 101)
	for i := range ts {
		ts[i] = float64(i) * 0.05
	}

	s := solver.New(model, c, ts, solver.NewOptions())
	s.X[0].CopyVec(x0)
	if _, aborted := solver.Rollout(s, 0); aborted {
		panic("initial rollout aborted")
	}
	s.AcceptTrajectory()

	var history diagnostics.History
	for iter := 0; iter < iterations; iter++ {
		J0, _ := solver.Rollout(s, 0)
		if err := solver.BackwardPass(s); err != nil {
			fmt.Printf("iter %d: backward pass failed: %v\n", iter, err)
			break
		}

		alpha := 1.0
		var J1 float64
		var aborted bool
		for {
			J1, aborted = solver.Rollout(s, alpha)
			if !aborted && J1 <= J0+1e-2*solver.ExpectedReduction(s, alpha) {
				break
			}
			alpha *= 0.5
			if alpha < 1e-8 {
				break
			}
		}
		s.AcceptTrajectory()
		history.Record(alpha, J1, s.Reg.Rho)
		fmt.Printf("iter %d: alpha=%v J=%v rho=%v status=%v\n", iter, alpha, J1, s.Reg.Rho, s.Status)
	}

	fmt.Println("final state:", mat.Formatted(s.X[s.N-1]))
	if err := history.SaveCostHistory("ilqrdemo.eps", 4*vg.Inch, 4*vg.Inch); err != nil {
		fmt.Println("plot not saved:", err)
	}
}
