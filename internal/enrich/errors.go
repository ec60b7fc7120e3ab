package enrich

import "kartei/internal/services"

var errNoAudioGenerator = services.Wrap(services.ErrConfiguration, "enricher", "generate audio", "no audio generator configured", nil)
