package metrics

import "go.uber.org/fx"

// Module provides the shared *Recorder.
var Module = fx.Provide(NewRecorder)
