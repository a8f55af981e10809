/*
Package domain contains the core models shared by the storyviz loaders, the graph builder
and the CLI driver.

It is kept free of I/O: loading YAML, Markdown and JSON happens in the adapters and in the
config/nlu packages, which hand back the types defined here.

# Key Entities

  - PolicySet: the dialogue policies read from a config file.
  - Domain: intents, entities, slots and actions the assistant knows about.
  - Story: a recorded example dialogue, made of Events.
  - NLUData: optional training examples used to turn intents back into sentences.
  - NLUDataRef: either Absent or Loaded(NLUData), decided once at load time.
*/
package domain
