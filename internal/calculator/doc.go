// Package calculator binds the job kinds of package jobs to the numeric
// computations, owns the shared input value and publishes results to
// per-slot channels.
//
// A Calculator is what the front ends (line shell, dashboard, one-shot CLI
// and status server) talk to:
//
//	calc, _ := calculator.New(calculator.Options{})
//	defer calc.Close()
//	updates, stop := calc.Updates()
//	defer stop()
//	calc.SetInput("17")
//	calc.Request(jobs.Prime)
//	u := <-updates // {Slot: PrimeTestResult, Value: "Prime"}
package calculator
