package obs_service

import (
	"github.com/iwtcode/bambuService/internal/interfaces"
	"github.com/iwtcode/bambuService/internal/middleware/logging"
)

// DumpSceneItems печатает в лог все входы сцены с их позициями.
// Диагностический режим для подбора раскладки оверлея.
func DumpSceneItems(obs interfaces.Compositor, log *logging.Logger) error {
	list, err := obs.GetInputList()
	if err != nil {
		return err
	}

	for _, input := range list {
		itemID, err := obs.GetSceneItemID(SceneName, input.Name)
		if err != nil {
			log.Warn("Input is not part of the scene", "source", input.Name, "error", err)
			continue
		}
		transform, err := obs.GetSceneItemTransform(SceneName, itemID)
		if err != nil {
			log.Warn("Failed to get transform", "source", input.Name, "error", err)
			continue
		}
		log.Info("Scene item",
			"kind", input.Kind,
			"source", input.Name,
			"x", transform.PositionX,
			"y", transform.PositionY,
			"scale_x", transform.ScaleX,
			"scale_y", transform.ScaleY,
		)
	}
	return nil
}
