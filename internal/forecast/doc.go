// Package forecast learns trajectories of the chaotic systems with an
// echo-state network and produces open-loop and autonomous
// predictions.
//
// The reservoir is a fixed random recurrent network; only the linear
// readout is trained, by ridge regression:
//
//	esn, err := forecast.New(3, forecast.DefaultConfig())
//	err = esn.Fit(u, y)
//	future, err := esn.Generate(series, 200)
package forecast
