package dispatch

import (
	"context"
	"sync"

	"github.com/newtron-network/vlanconf/pkg/device"
	"github.com/newtron-network/vlanconf/pkg/util"
)

// CommitSink pushes configuration to the device through its own session
// and optionally saves it.
type CommitSink struct {
	Driver      device.Driver
	Credentials device.Credentials
	Save        bool

	// OnOutput, when set, receives the device's response to the submitted
	// commands.
	OnOutput func(device, output string)

	mu      sync.Mutex
	outputs map[string]string
}

// Name implements Sink.
func (s *CommitSink) Name() string { return "commit" }

// Dispatch opens a session, submits the commands and saves. The session is
// closed on every path. An empty command set succeeds without contacting
// the device.
func (s *CommitSink) Dispatch(ctx context.Context, host, config string) error {
	cmds := SplitCommands(config)
	log := util.WithDevice(host)
	if len(cmds) == 0 {
		log.Debug("nothing to commit")
		return nil
	}

	sess, err := s.Driver.Open(ctx, host, s.Credentials)
	if err != nil {
		return &PushError{Stage: StageOpen, Err: err}
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warnf("closing session: %v", err)
		}
	}()

	out, err := sess.SendConfig(ctx, cmds)
	s.record(host, out)
	if s.OnOutput != nil && out != "" {
		s.OnOutput(host, out)
	}
	if err != nil {
		return &PushError{Stage: StageSubmit, Err: err}
	}
	log.Debugf("submitted %d commands", len(cmds))

	if s.Save {
		if err := sess.SaveConfig(ctx); err != nil {
			return &PushError{Stage: StageSave, Err: err}
		}
		log.Debug("configuration saved")
	}
	return nil
}

func (s *CommitSink) record(host, out string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outputs == nil {
		s.outputs = map[string]string{}
	}
	s.outputs[host] = out
}

// Output returns the device's response to the last commit to host.
func (s *CommitSink) Output(host string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputs[host]
}
