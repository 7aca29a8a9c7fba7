package types

// WorkloadInfo describes the StatefulSet whose last replica is being inspected.
type WorkloadInfo struct {
	Kind      string `json:"kind"` // always "StatefulSet"
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Replicas  int32  `json:"replicas"`
}

// AbsenceReason explains why a resolution produced no volume.
type AbsenceReason string

const (
	// NoClaimMount means the replica declares no PersistentVolumeClaim volume.
	NoClaimMount AbsenceReason = "NoClaimMount"
	// ClaimUnbound means the claim exists but has no bound volume yet.
	ClaimUnbound AbsenceReason = "ClaimUnbound"
)

// Resolution is the outcome of walking StatefulSet -> Pod -> PVC -> PV.
// An empty VolumeName means no volume was found; Absence says why.
type Resolution struct {
	Workload    WorkloadInfo  `json:"workload"`
	ReplicaName string        `json:"replica"`
	ClaimName   string        `json:"claim,omitempty"`
	VolumeName  string        `json:"volume,omitempty"`
	Absence     AbsenceReason `json:"absence,omitempty"`
}

// Found reports whether a bound volume was resolved.
func (r *Resolution) Found() bool {
	return r != nil && r.VolumeName != ""
}
