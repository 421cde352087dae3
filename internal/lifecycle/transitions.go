package lifecycle

import "docport/internal/model"

// transitions lists every legal (from, action) pair and its resulting state.
// Guards on expiry, key and party are applied separately in decide.
var transitions = map[model.Status]map[model.Action]model.Status{
	model.StatusUploaded: {
		model.ActionDownload: model.StatusDownloaded,
		model.ActionCancel:   model.StatusCancelled,
		model.ActionArchive:  model.StatusArchived,
	},
	model.StatusDownloaded: {
		model.ActionDownload: model.StatusDownloaded,
		model.ActionArchive:  model.StatusArchived,
	},
	model.StatusCancelled: {
		model.ActionArchive: model.StatusArchived,
	},
	model.StatusArchived: {},
}

// Next returns the state reached by applying action in state from, ignoring guards.
func Next(from model.Status, action model.Action) (model.Status, bool) {
	to, ok := transitions[from][action]
	return to, ok
}
