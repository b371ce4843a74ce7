/*
Package material validates engineering constants and derives stiffness tensors.

Validation turns raw Fields into an immutable domain.Material, rejecting
inadmissible input with the taxonomy defined in package domain. The Builder
then derives the 6x6 Voigt stiffness tensor: via Lamé parameters for
isotropic materials, by inverting the compliance matrix for orthotropic ones,
and as the identity transform for user supplied matrices.

Positive-definiteness is decided by attempting a Cholesky factorization.

	m, err := material.Validate(domain.KindIsotropic, material.Fields{
		"name": "Steel", "density": 7850, "E": 210e9, "nu": 0.3,
	})
	if err != nil {
		return err
	}
	t, err := material.Build(m)
*/
package material
