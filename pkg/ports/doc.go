/*
Package ports defines the driven ports (interfaces) of storyviz.

These interfaces decouple the driver and the graph builder from concrete story sources
and from the agent doing the rendering.

# Key Interfaces

  - StoryLoader: reads story steps from a file, a glob, a Loam directory or memory.
  - Visualizer: renders a stories source into an output file.
*/
package ports
