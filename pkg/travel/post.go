package travel

// Posts are read-only from this service's perspective: only list retrieval
// is exposed, and records pass through from the document store untouched.
// No model type is needed beyond the docstore record.
