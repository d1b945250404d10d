// Package services implements the driving port interfaces.
// Services contain the pipeline logic and orchestrate calls to driven
// ports (adapters): extraction, normalisation, storage, retrieval and the
// language model.
package services
