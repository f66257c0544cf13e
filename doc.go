// Package formula implements a formula engine: a parser for textual formulas,
// an evaluator over numbers and truth values, symbolic differentiation and
// integration, and functions declared in formula text.
//
// The syntax of formulas is intended to be similar to math you'd write in
// your notes. "2 x y" is a multiplication of three terms. So is "{2}[x](y)".
// Any kind of bracket closes any other, so "(x]" is fine too. "-2^2^n" is the
// same as "-(2^(2^n))", where "a^b" is exponentiation. Comparisons such as
// "x <= 1" give logical values, which combine with "&", "|" and "!" and
// select branches of "if(cond, then, else)".
//
// Functions are called as "name(a, b)". The built-in functions are if, sum,
// exp, ln, log, sqrt, abs, and the constants pi and e. "sum(i, 1, n, i^2)"
// adds i^2 for i from 1 to n inclusive. Further functions can be declared
// with text like "f(x, y) = x^2 + y" through a Registry.
//
// A parsed Expr can be evaluated any number of times against different
// environments, rendered back to formula text, and differentiated or
// integrated with respect to any variable.
package formula
