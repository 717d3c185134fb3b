// Package logging provides structured logging for the BER ingest server.
//
// Logger wraps a zap.SugaredLogger behind a small interface so the rest of
// the module depends on four verbs (Debug/Info/Warn/Error) and two
// derivation methods (WithRequestID/WithFields) rather than on zap directly.
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "/var/log/berd/berd.log",
//	})
//
//	workerLogger := logger.WithFields("worker", workerIndex)
//	workerLogger.Info("listener bound", "addr", addr)
//
// For tests, use logging.NewNop() to discard output entirely.
package logging
