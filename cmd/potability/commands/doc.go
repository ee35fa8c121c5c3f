// Package commands defines the potability CLI.
//
// Commands
//
//   - train      Preprocess, train, save, evaluate and plot
//   - evaluate   Score the saved model against a labelled CSV
//   - predict    Write p(potable) and labels for every row of a CSV
//   - runs       List recorded training runs
//   - schedule   Retrain on a cron expression
//
// Settings come from defaults, an optional --config file, a .env file,
// POTABILITY_* variables and flags, later sources winning.
package commands
