package pipeline

import "time"

// ChannelSink forwards events into Ch. After Done is closed events are
// dropped, so decode workers never block on a progress view that has
// already exited.
type ChannelSink struct {
	Ch   chan<- Event
	Done <-chan struct{}
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- evt:
	case <-s.Done:
	}
}

// progress reports build progress to an optional sink.
type progress struct {
	sink ProgressSink
}

func (p progress) send(evt Event) {
	if p.sink != nil {
		p.sink.OnEvent(evt)
	}
}

// queued announces every unit before loading starts.
func (p progress) queued(units []UnitResult) {
	for _, u := range units {
		p.send(Event{File: u.Display, Status: StatusQueued})
	}
}

// unit reports the state of one unit file within stage.
func (p progress) unit(u UnitResult, stage Stage, status Status, err error, elapsed time.Duration) {
	p.send(Event{File: u.Display, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

// stage reports a whole-build stage transition.
func (p progress) stage(stage Stage, status Status, err error, elapsed time.Duration) {
	p.send(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
