package pipeline

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/preflight-ml/preflight/internal/backend/cpu"
	"github.com/preflight-ml/preflight/internal/backend/webgpu"
	"github.com/preflight-ml/preflight/internal/ops"
	"github.com/preflight-ml/preflight/internal/tensor"
	"github.com/preflight-ml/preflight/internal/vision"
)

// Preprocessor turns a declarative transform configuration into an executable
// operator sequence and applies it to batches of images, producing one batch
// tensor per call.
//
// Administrative controls (DisableNormalize, DisablePermute,
// EnableAcceleration) rebuild the sequence from the original configuration.
// Rebuilds are serialized against in-flight Run calls; the sequence is
// treated as read-only during execution.
type Preprocessor struct {
	mu sync.RWMutex

	configPath string
	configData []byte

	seq         []ops.Operator
	initialized bool

	disableNormalize bool
	disablePermute   bool

	accel    *webgpu.Backend
	useAccel bool
	deviceID int

	host *cpu.Backend
	log  *logrus.Entry
}

// NewFromFile creates a Preprocessor from a YAML configuration file.
// Rebuilds re-read the file, so administrative controls always start from the
// configuration on disk.
func NewFromFile(path string) (*Preprocessor, error) {
	p := newPreprocessor()
	p.configPath = path
	if err := p.rebuildLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewFromBytes creates a Preprocessor from an in-memory YAML configuration.
func NewFromBytes(data []byte) (*Preprocessor, error) {
	p := newPreprocessor()
	p.configData = append([]byte(nil), data...)
	if err := p.rebuildLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func newPreprocessor() *Preprocessor {
	return &Preprocessor{
		host:     cpu.New(),
		deviceID: tensor.HostDeviceID,
		log:      logrus.WithField("component", "preprocessor"),
	}
}

// rebuildLocked rebuilds the operator sequence from the original
// configuration and the current switches. Callers must hold mu exclusively
// (or own the Preprocessor, during construction).
func (p *Preprocessor) rebuildLocked() error {
	data := p.configData
	if p.configPath != "" {
		var err error
		data, err = os.ReadFile(p.configPath)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfigLoad, err)
		}
	}

	specs, err := parseConfig(data)
	if err != nil {
		return err
	}
	seq, err := buildSequence(specs, buildOptions{
		disableNormalize: p.disableNormalize,
		disablePermute:   p.disablePermute,
	})
	if err != nil {
		return err
	}

	p.seq = seq
	p.initialized = true
	p.log.WithField("operators", operatorNames(seq)).Debug("pipeline built")
	return nil
}

// DisableNormalize drops NormalizeImage entries from the pipeline and
// rebuilds it from the original configuration.
func (p *Preprocessor) DisableNormalize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disableNormalize = true
	return p.rebuildLocked()
}

// DisablePermute drops ToCHWImage entries from the pipeline and rebuilds it
// from the original configuration.
func (p *Preprocessor) DisablePermute() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disablePermute = true
	return p.rebuildLocked()
}

// EnableAcceleration switches the fused normalize+permute operator to the
// accelerated device path. deviceID tags the output tensor; pass a negative
// value to keep the current one. When no accelerated runtime is available the
// preprocessor logs a warning and stays on the host path.
func (p *Preprocessor) EnableAcceleration(deviceID int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accel == nil {
		b, err := webgpu.New()
		if err != nil {
			p.useAccel = false
			p.log.WithError(err).Warn("accelerated runtime unavailable, preprocessing stays on the host")
			return nil
		}
		p.accel = b
		p.log.WithField("backend", b.Name()).Info("accelerated preprocessing enabled")
	}
	p.useAccel = true
	if deviceID >= 0 {
		p.deviceID = deviceID
	}
	return nil
}

// Close releases the accelerated backend, if any. The preprocessor stays
// usable on the host path.
func (p *Preprocessor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accel != nil {
		p.accel.Release()
		p.accel = nil
	}
	p.useAccel = false
}

// OperatorNames returns the names of the current (fused) operator sequence
// in execution order.
func (p *Preprocessor) OperatorNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return operatorNames(p.seq)
}

func operatorNames(seq []ops.Operator) []string {
	names := make([]string, len(seq))
	for i, op := range seq {
		names[i] = op.Name()
	}
	return names
}

// Run applies the full operator sequence to every image in the batch, in
// sequence order, and assembles the processed images into one batch tensor.
// Images are mutated in place and their buffers are consumed by the output
// tensor. Any operator failure aborts the whole batch.
func (p *Preprocessor) Run(images []*vision.Image) (*tensor.RawTensor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.initialized {
		return nil, ErrNotInitialized
	}
	if len(images) == 0 {
		return nil, ErrEmptyBatch
	}

	for i, m := range images {
		for _, op := range p.seq {
			var err error
			if acc, ok := op.(ops.Accelerated); ok && p.useAccel {
				err = acc.ApplyAccelerated(m, p.accel)
			} else {
				err = op.Apply(m)
			}
			if err != nil {
				return nil, &OperatorApplyError{Index: i, Op: op.Name(), Err: err}
			}
		}
	}

	return p.assemble(images)
}

// assemble transfers each image's buffer into a tensor, adds the batch axis,
// and concatenates along it. A batch of one short-circuits the concat.
func (p *Preprocessor) assemble(images []*vision.Image) (*tensor.RawTensor, error) {
	tensors := make([]*tensor.RawTensor, len(images))
	for i, m := range images {
		t, err := m.ShareWithTensor()
		if err != nil {
			return nil, fmt.Errorf("assembling image %d: %w", i, err)
		}
		t.ExpandDim(0)
		tensors[i] = t
	}

	out := tensors[0]
	if len(tensors) > 1 {
		want := tensors[0].Shape()
		wantDType := tensors[0].DType()
		for i, t := range tensors[1:] {
			if t.DType() != wantDType || !t.Shape().Equal(want) {
				return nil, &ShapeMismatchError{
					Index:     i + 1,
					Want:      want,
					Got:       t.Shape(),
					WantDType: wantDType,
					GotDType:  t.DType(),
				}
			}
		}
		out = p.host.Cat(tensors, 0)
	}

	out.SetDeviceID(p.deviceID)
	return out, nil
}
