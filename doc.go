/*
Package paktum defines all common interfaces that tie the escrow
settlement protocol together, as well as implementations of some of the
simpler components (when interfaces would be too much overhead).

We pass context through context.Context between the application stack,
middleware, and handlers. To do so, paktum defines some common keys to
store info, such as the current block time and the logger. Each
extension, such as auth, may add its own keys to enrich the context with
specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)
*/
package paktum
