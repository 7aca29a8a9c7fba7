package resolver

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Kind classifies a failed lookup.
type Kind int

const (
	// NotFound means the object addressed by the stage does not exist.
	NotFound Kind = iota + 1
	// Transport covers every other API failure: network, auth, throttling, decoding.
	Transport
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case Transport:
		return "Transport"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Stage names the step of the lookup chain that failed.
type Stage string

const (
	StageWorkload Stage = "workload"
	StageReplica  Stage = "replica"
	StageClaim    Stage = "claim"
)

// resource is the API kind fetched at the stage, used in messages.
func (s Stage) resource() string {
	switch s {
	case StageWorkload:
		return "StatefulSet"
	case StageReplica:
		return "Pod"
	case StageClaim:
		return "PersistentVolumeClaim"
	default:
		return string(s)
	}
}

// LookupError is returned by Resolve when one of the API reads fails.
type LookupError struct {
	Kind      Kind
	Stage     Stage
	Namespace string
	Name      string
	Err       error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("getting %s %s/%s: %v", e.Stage.resource(), e.Namespace, e.Name, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func newLookupError(stage Stage, namespace, name string, err error) *LookupError {
	kind := Transport
	if apierrors.IsNotFound(err) {
		kind = NotFound
	}
	return &LookupError{
		Kind:      kind,
		Stage:     stage,
		Namespace: namespace,
		Name:      name,
		Err:       err,
	}
}

// IsNotFound reports whether err is a LookupError of kind NotFound.
func IsNotFound(err error) bool {
	var le *LookupError
	return errors.As(err, &le) && le.Kind == NotFound
}

// StageOf returns the stage a LookupError failed at, or "" for any other error.
func StageOf(err error) Stage {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Stage
	}
	return ""
}
