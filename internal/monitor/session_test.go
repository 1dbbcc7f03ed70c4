package monitor

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/bms"
	"github.com/openbms/OpenBatteryCore/internal/canbus"
	"github.com/openbms/OpenBatteryCore/internal/types"
)

// fakeAdapter records sent frames and serves queued replies.
type fakeAdapter struct {
	mu         sync.Mutex
	connected  bool
	sent       []types.CanFrame
	replies    []*types.CanFrame
	sendErr    error
	receiveErr error
	recvCalls  int
}

func (f *fakeAdapter) Connect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	return nil
}

func (f *fakeAdapter) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	return nil
}

func (f *fakeAdapter) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeAdapter) Send(frame types.CanFrame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, frame)
	return nil
}

func (f *fakeAdapter) Receive(timeout time.Duration) (*types.CanFrame, error) {
	f.mu.Lock()
	f.recvCalls++
	if f.receiveErr != nil {
		f.mu.Unlock()
		return nil, f.receiveErr
	}
	if len(f.replies) == 0 {
		f.mu.Unlock()
		time.Sleep(time.Millisecond)
		return nil, nil
	}
	frame := f.replies[0]
	f.replies = f.replies[1:]
	f.mu.Unlock()
	return frame, nil
}

func (f *fakeAdapter) sentFrames() []types.CanFrame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.CanFrame{}, f.sent...)
}

func (f *fakeAdapter) receiveCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recvCalls
}

func bmsReply(cmd bms.Command, payload []byte) *types.CanFrame {
	id := bms.FrameID{PTP: true, Command: uint8(cmd), Destination: 0x80, Source: 0x01}
	return &types.CanFrame{ID: id.ID(), Data: payload, Timestamp: time.Now().UnixMilli()}
}

func newTestSession(fake *fakeAdapter) (*Session, *Store) {
	store := NewStore()
	session := NewSession(canbus.Config{Kind: canbus.KindSimulation}, fake, store, zap.NewNop())
	return session, store
}

func TestSessionPollOnceQueriesInOrder(t *testing.T) {
	fake := &fakeAdapter{}
	session, _ := newTestSession(fake)

	if err := session.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := session.PollOnce(); err != nil {
		t.Fatalf("PollOnce() error = %v", err)
	}

	sent := fake.sentFrames()
	if len(sent) != len(bms.QueryCommands) {
		t.Fatalf("sent %d frames, want %d", len(sent), len(bms.QueryCommands))
	}

	for i, cmd := range bms.QueryCommands {
		id := bms.ParseFrameID(sent[i].ID)
		if bms.Command(id.Command) != cmd {
			t.Errorf("frame %d: command = %s, want %s", i, bms.Command(id.Command), cmd)
		}
		if id.Source != 0x80 || id.Destination != 0x01 {
			t.Errorf("frame %d: addressing = %02X->%02X, want 80->01", i, id.Source, id.Destination)
		}
		if !id.PTP || id.Cnt {
			t.Errorf("frame %d: ptp/cnt = %v/%v, want true/false", i, id.PTP, id.Cnt)
		}
		if len(sent[i].Data) != 8 {
			t.Errorf("frame %d: payload length = %d, want 8", i, len(sent[i].Data))
		}
	}

	if session.State() != StateConnected {
		t.Errorf("state after poll = %s, want CONNECTED", session.State())
	}
}

func TestSessionPollOnceAppliesReplies(t *testing.T) {
	fake := &fakeAdapter{
		replies: []*types.CanFrame{
			bmsReply(bms.CmdSocSoh, []byte{0x22, 0x00, 0x64, 0x00, 0x1E, 0x00}),
			bmsReply(bms.CmdVoltageCurrent, []byte{0xB9, 0x1F, 0x50, 0xFB}),
		},
	}
	session, store := newTestSession(fake)

	if err := session.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := session.PollOnce(); err != nil {
		t.Fatalf("PollOnce() error = %v", err)
	}

	snap := store.Snapshot()
	if !snap.Connected || snap.Timestamp == 0 {
		t.Errorf("liveness = %v/%d, want true/non-zero", snap.Connected, snap.Timestamp)
	}
	if snap.SocSoh == nil || snap.SocSoh.Soc != 34 {
		t.Errorf("SocSoh = %+v, want soc 34", snap.SocSoh)
	}
	if snap.VoltageCurrent == nil || snap.VoltageCurrent.Voltage != 812.1 {
		t.Errorf("VoltageCurrent = %+v, want voltage 812.1", snap.VoltageCurrent)
	}
}

func TestSessionPollOnceTouchesWithoutReplies(t *testing.T) {
	fake := &fakeAdapter{}
	session, store := newTestSession(fake)

	if err := session.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := session.PollOnce(); err != nil {
		t.Fatalf("PollOnce() error = %v", err)
	}

	snap := store.Snapshot()
	if !snap.Connected || snap.Timestamp == 0 {
		t.Errorf("liveness = %v/%d, want true/non-zero", snap.Connected, snap.Timestamp)
	}
	if snap.SocSoh != nil || snap.VoltageCurrent != nil {
		t.Error("records set although no frame arrived")
	}
}

func TestSessionPollOnceSendErrorAborts(t *testing.T) {
	wireErr := errors.New("wire cut")
	fake := &fakeAdapter{sendErr: wireErr}
	session, store := newTestSession(fake)

	if err := session.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	err := session.PollOnce()
	if !errors.Is(err, wireErr) {
		t.Fatalf("PollOnce() error = %v, want wrapped wire error", err)
	}
	if fake.receiveCalls() != 0 {
		t.Errorf("receive attempted %d times after send failure", fake.receiveCalls())
	}
	if store.Snapshot().Connected {
		t.Error("store marked connected although the cycle aborted")
	}
	if session.State() != StateConnected {
		t.Errorf("state = %s, want CONNECTED", session.State())
	}
}

func TestSessionPollOnceReceiveErrorTolerated(t *testing.T) {
	fake := &fakeAdapter{receiveErr: errors.New("controller glitch")}
	session, store := newTestSession(fake)

	if err := session.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := session.PollOnce(); err != nil {
		t.Fatalf("PollOnce() error = %v, receive failures must not abort", err)
	}

	if fake.receiveCalls() != receiveAttempts {
		t.Errorf("receive attempts = %d, want %d", fake.receiveCalls(), receiveAttempts)
	}
	if !store.Snapshot().Connected {
		t.Error("store not touched before the receive phase")
	}
}

func TestSessionPollRejectedWhileReceiving(t *testing.T) {
	fake := &fakeAdapter{}
	session, _ := newTestSession(fake)

	if err := session.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := session.StartContinuous(); err != nil {
		t.Fatalf("StartContinuous() error = %v", err)
	}
	defer session.Disconnect()

	if err := session.StartContinuous(); err != nil {
		t.Errorf("second StartContinuous() error = %v, want idempotent nil", err)
	}
	if err := session.PollOnce(); !errors.Is(err, ErrBusy) {
		t.Errorf("PollOnce() error = %v, want ErrBusy", err)
	}
}

func TestSessionContinuousReceive(t *testing.T) {
	fake := &fakeAdapter{
		replies: []*types.CanFrame{
			bmsReply(bms.CmdSocSoh, []byte{0x50, 0x00, 0x64, 0x00, 0x3C, 0x00}),
			bmsReply(bms.CmdAlarmStatus, []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}),
			bmsReply(bms.CmdSoftwareVersion, []byte{0x56, 0x32, 0x2E, 0x31, 0x39, 0x53, 0x00, 0x00}),
		},
	}
	session, store := newTestSession(fake)

	var applied int32
	session.onApply = func() { atomic.AddInt32(&applied, 1) }

	if err := session.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := session.StartContinuous(); err != nil {
		t.Fatalf("StartContinuous() error = %v", err)
	}
	if session.State() != StateReceiving {
		t.Errorf("state = %s, want RECEIVING", session.State())
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&applied) < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := atomic.LoadInt32(&applied); got != 3 {
		t.Fatalf("applied %d frames, want 3", got)
	}

	if err := session.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if fake.IsConnected() {
		t.Error("adapter still connected after Disconnect")
	}
	if session.State() != StateDisconnected {
		t.Errorf("state = %s, want DISCONNECTED", session.State())
	}

	snap := store.Snapshot()
	if snap.SoftwareVersion != "V2.19S" {
		t.Errorf("SoftwareVersion = %q, want V2.19S", snap.SoftwareVersion)
	}
	if snap.AlarmStatus == nil || len(snap.AlarmStatus.ActiveAlarms) != 1 {
		t.Errorf("AlarmStatus = %+v, want one active alarm", snap.AlarmStatus)
	}
	if snap.Connected {
		t.Error("snapshot still connected after Disconnect")
	}

	if err := session.Disconnect(); err != nil {
		t.Errorf("second Disconnect() error = %v, want nil", err)
	}
}

func TestSessionTimingPerKind(t *testing.T) {
	store := NewStore()

	sim := NewSession(canbus.Config{Kind: canbus.KindSimulation}, &fakeAdapter{}, store, zap.NewNop())
	if sim.sendDelay != simSendDelay || sim.receiveTimeout != simReceiveTimeout {
		t.Errorf("simulation timing = %v/%v, want %v/%v",
			sim.sendDelay, sim.receiveTimeout, simSendDelay, simReceiveTimeout)
	}

	usb := NewSession(canbus.Config{Kind: canbus.KindUSB}, &fakeAdapter{}, store, zap.NewNop())
	if usb.sendDelay != realSendDelay || usb.receiveTimeout != realReceiveTimeout {
		t.Errorf("usb timing = %v/%v, want %v/%v",
			usb.sendDelay, usb.receiveTimeout, realSendDelay, realReceiveTimeout)
	}

	if usb.cfg.LocalAddress != 0x80 || usb.cfg.RemoteAddress != 0x01 {
		t.Errorf("default addressing = %02X/%02X, want 80/01",
			usb.cfg.LocalAddress, usb.cfg.RemoteAddress)
	}
}
