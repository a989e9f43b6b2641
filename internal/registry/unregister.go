package registry

// UnregisterModule removes the factory under (name, namespace). An empty
// namespace means DefaultNamespace. A missing key is ErrNotFound unless
// optional is set, in which case the call does nothing. The namespace entry
// is kept even when it becomes empty, and modules already built by the
// factory are unaffected.
func (r *Registry) UnregisterModule(name, namespace string, optional bool) error {
	namespace = normalize(namespace)

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{name: name, namespace: namespace}
	if _, ok := r.factories[k]; !ok {
		if optional {
			r.metrics.unregistrations.WithLabelValues(namespace, resultSkipped).Inc()
			r.logger.Debug("Optional unregister of absent module ignored.", "name", name, "namespace", namespace)
			return nil
		}
		r.metrics.unregistrations.WithLabelValues(namespace, resultNotFound).Inc()
		return &Error{Op: "unregister", Name: name, Namespace: namespace, Err: ErrNotFound}
	}

	delete(r.factories, k)
	r.namespaces.remove(namespace, name)
	r.metrics.unregistrations.WithLabelValues(namespace, resultOK).Inc()
	r.metrics.factories.Dec()
	r.logger.Debug("Unregistered module factory.", "name", name, "namespace", namespace)
	return nil
}
