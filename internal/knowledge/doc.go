// Package knowledge persists and restores learned repository knowledge: the
// extracted pattern document and an embedding-backed similarity index over
// source chunks. The pattern document is the source of truth for detection;
// the index powers excerpt retrieval during explanation. Either half can be
// absent, and consumers degrade accordingly.
package knowledge
