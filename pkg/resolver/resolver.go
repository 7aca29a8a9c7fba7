package resolver

import (
	"context"
	"fmt"

	"github.com/bitia-ru/k8s-last-replica-pv/pkg/types"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"
)

// Resolver finds the PersistentVolume bound to the last replica of a StatefulSet.
type Resolver struct {
	client kubernetes.Interface
}

func New(client kubernetes.Interface) *Resolver {
	return &Resolver{client: client}
}

// Resolve walks StatefulSet -> last Pod -> first PVC volume -> bound PV name.
//
// A replica without a claim-backed volume, or a claim that is not bound yet,
// is not an error: the returned Resolution has an empty VolumeName and its
// Absence field set. Failed API reads are returned as *LookupError.
func (r *Resolver) Resolve(ctx context.Context, name, namespace string) (*types.Resolution, error) {
	workload, err := r.getWorkload(ctx, name, namespace)
	if err != nil {
		return nil, err
	}

	res := &types.Resolution{
		Workload:    *workload,
		ReplicaName: ReplicaName(workload.Name, workload.Replicas),
	}
	r.logf("StatefulSet %s/%s has %d replicas, last replica is %s", namespace, name, workload.Replicas, res.ReplicaName)

	pod, err := r.getReplica(ctx, res.ReplicaName, namespace, workload.Replicas)
	if err != nil {
		return nil, err
	}

	res.ClaimName = firstClaimName(pod)
	if res.ClaimName == "" {
		res.Absence = types.NoClaimMount
		r.logf("Pod %s mounts no PVC", pod.Name)
		return res, nil
	}
	r.logf("Pod %s mounts PVC %s", pod.Name, res.ClaimName)

	pvc, err := r.client.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, res.ClaimName, metav1.GetOptions{})
	if err != nil {
		return nil, newLookupError(StageClaim, namespace, res.ClaimName, err)
	}

	res.VolumeName = pvc.Spec.VolumeName
	if res.VolumeName == "" {
		res.Absence = types.ClaimUnbound
		r.logf("PVC %s is not bound to a PV", pvc.Name)
		return res, nil
	}
	r.logf("PVC %s -> PV %s", pvc.Name, res.VolumeName)

	return res, nil
}

func (r *Resolver) getWorkload(ctx context.Context, name, namespace string) (*types.WorkloadInfo, error) {
	ss, err := r.client.AppsV1().StatefulSets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, newLookupError(StageWorkload, namespace, name, err)
	}
	return statefulSetInfo(ss), nil
}

func (r *Resolver) getReplica(ctx context.Context, name, namespace string, replicas int32) (*corev1.Pod, error) {
	// A StatefulSet scaled to zero has no last replica; the derived name has a
	// negative ordinal and cannot exist.
	if replicas < 1 {
		err := apierrors.NewNotFound(schema.GroupResource{Resource: "pods"}, name)
		return nil, newLookupError(StageReplica, namespace, name, err)
	}

	pod, err := r.client.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, newLookupError(StageReplica, namespace, name, err)
	}
	return pod, nil
}

// ReplicaName returns the name of the highest-ordinal Pod of a StatefulSet.
func ReplicaName(workload string, replicas int32) string {
	return fmt.Sprintf("%s-%d", workload, replicas-1)
}

// firstClaimName returns the claim name of the first PVC-backed volume in
// declaration order, or "" when the pod has none.
func firstClaimName(pod *corev1.Pod) string {
	for _, vol := range pod.Spec.Volumes {
		if vol.PersistentVolumeClaim != nil {
			return vol.PersistentVolumeClaim.ClaimName
		}
	}
	return ""
}

func statefulSetInfo(ss *appsv1.StatefulSet) *types.WorkloadInfo {
	var replicas int32 = 1
	if ss.Spec.Replicas != nil {
		replicas = *ss.Spec.Replicas
	}
	return &types.WorkloadInfo{
		Kind:      "StatefulSet",
		Name:      ss.Name,
		Namespace: ss.Namespace,
		Replicas:  replicas,
	}
}

func (r *Resolver) logf(format string, args ...interface{}) {
	klog.V(2).Infof("[resolver] "+format, args...)
}
