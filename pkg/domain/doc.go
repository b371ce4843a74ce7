/*
Package domain contains the core value types of Lama.

It defines the material variants, the 6x6 stiffness tensor and the error
taxonomy shared by the validator, the tensor builder and the solver adapter.
This package is kept pure and free of external dependencies like I/O or
persistence.

# Key Entities

  - Material: sum type over Isotropic, Orthotropic, StiffnessMatrix and Spring.
  - Matrix6 / StiffnessTensor: Voigt-notation constitutive tensor.
  - ValidationError / AggregateError: field-level validation failures.
  - ExecutionError: solver execution failures.
*/
package domain
