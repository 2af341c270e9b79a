package frame

import (
	"fmt"
)

// fakeFence stands in for the GPU completion counter. Tests hold the
// completed value wherever they want the simulated GPU to be, and onWait
// lets a test model the GPU catching up while the CPU blocks.
type fakeFence struct {
	completed uint64

	signals []uint64
	waits   []uint64

	signalErr    error
	completedErr error
	waitErr      error

	onWait func(target uint64)
}

func (f *fakeFence) Signal(value uint64) error {
	if f.signalErr != nil {
		return f.signalErr
	}
	f.signals = append(f.signals, value)
	return nil
}

func (f *fakeFence) CompletedValue() (uint64, error) {
	if f.completedErr != nil {
		return 0, f.completedErr
	}
	return f.completed, nil
}

func (f *fakeFence) WaitFor(value uint64) error {
	if f.waitErr != nil {
		return f.waitErr
	}
	f.waits = append(f.waits, value)
	if f.onWait != nil {
		f.onWait(value)
	}
	if f.completed < value {
		return fmt.Errorf("wait for %d returned with counter at %d", value, f.completed)
	}
	return nil
}

type fakeAllocator struct {
	resets int
	err    error
}

func (a *fakeAllocator) Reset() error {
	if a.err != nil {
		return a.err
	}
	a.resets++
	return nil
}

// fakeObjects records which indices were written each time, grouped into
// generations so a test can count writes per frame.
type fakeObjects struct {
	capacity uint32
	writes   [][]uint32
	err      error
}

func newFakeObjects(capacity uint32) *fakeObjects {
	return &fakeObjects{capacity: capacity, writes: [][]uint32{nil}}
}

func (o *fakeObjects) WriteObject(index uint32, data ObjectData) error {
	if o.err != nil {
		return o.err
	}
	if index >= o.capacity {
		return fmt.Errorf("object index %d beyond capacity %d", index, o.capacity)
	}
	last := len(o.writes) - 1
	o.writes[last] = append(o.writes[last], index)
	return nil
}

func (o *fakeObjects) Capacity() uint32 {
	return o.capacity
}

// nextGeneration starts a fresh write log, marking a frame boundary.
func (o *fakeObjects) nextGeneration() {
	o.writes = append(o.writes, nil)
}

func (o *fakeObjects) totalWrites() int {
	n := 0
	for _, gen := range o.writes {
		n += len(gen)
	}
	return n
}

type fakePass struct {
	written []PassData
	err     error
}

func (p *fakePass) WritePass(data PassData) error {
	if p.err != nil {
		return p.err
	}
	p.written = append(p.written, data)
	return nil
}

// fakeProvider builds slots whose parts are all fakes and keeps them
// reachable for inspection.
type fakeProvider struct {
	capacity   uint32
	allocators []*fakeAllocator
	objects    []*fakeObjects
	passes     []*fakePass
	buildErr   error
}

func newFakeProvider(capacity uint32) *fakeProvider {
	return &fakeProvider{capacity: capacity}
}

func (p *fakeProvider) BuildSlot(index uint32) (*Slot, error) {
	if p.buildErr != nil {
		return nil, p.buildErr
	}
	alloc := &fakeAllocator{}
	objs := newFakeObjects(p.capacity)
	pass := &fakePass{}
	p.allocators = append(p.allocators, alloc)
	p.objects = append(p.objects, objs)
	p.passes = append(p.passes, pass)
	return &Slot{Allocator: alloc, Objects: objs, Pass: pass}, nil
}
